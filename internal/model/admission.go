package model

import "time"

// AdmissionChannel is the route by which a student is admitted. It selects
// which channel-specific field group is populated on the record.
type AdmissionChannel string

const (
	ChannelKEA        AdmissionChannel = "KEA"
	ChannelManagement AdmissionChannel = "MANAGEMENT"
)

// DocumentSlot names one uploaded document on the intake form.
type DocumentSlot string

const (
	SlotPhoto        DocumentSlot = "photo"
	SlotMarksCard    DocumentSlot = "marks_card"
	SlotAadhaarFront DocumentSlot = "aadhaar_front"
	SlotAadhaarBack  DocumentSlot = "aadhaar_back"
	SlotCasteIncome  DocumentSlot = "caste_income"
)

// DocumentSlots lists every slot in form order. SlotCasteIncome is required
// only when the applicant declared a reservation category.
var DocumentSlots = []DocumentSlot{
	SlotPhoto, SlotMarksCard, SlotAadhaarFront, SlotAadhaarBack, SlotCasteIncome,
}

// CategoryNotApplicable is the category value meaning no reservation claim,
// which waives the caste/income certificate upload.
const CategoryNotApplicable = "NOT APPLICABLE"

// Admission is one persisted intake record. It is created exactly once and
// never updated; all personal fields are opaque strings from the form.
type Admission struct {
	ID          int    `json:"-"`
	AdmissionID string `json:"admission_id"`

	StudentName        string `json:"student_name"`
	DOB                string `json:"dob"`
	FatherName         string `json:"father_name"`
	MotherName         string `json:"mother_name"`
	MobileNumber       string `json:"mobile_number"`
	ParentMobileNumber string `json:"parent_mobile_number"`
	Email              string `json:"email"`
	PermanentAddress   string `json:"permanent_address"`

	PreviousCollege     string `json:"previous_college"`
	PreviousCombination string `json:"previous_combination"`
	Category            string `json:"category"`
	SubCaste            string `json:"sub_caste"`

	AdmissionThrough AdmissionChannel `json:"admission_through"`
	// KEA channel fields.
	CETNumber         *string `json:"cet_number,omitempty"`
	CETRank           *string `json:"cet_rank,omitempty"`
	AllottedBranchKEA *string `json:"allotted_branch_kea,omitempty"`
	// Management channel fields.
	SeatAllotted             *string `json:"seat_allotted,omitempty"`
	AllottedBranchManagement *string `json:"allotted_branch_management,omitempty"`

	PhotoURL        *string `json:"photo_url,omitempty"`
	MarksCardURL    *string `json:"marks_card_url,omitempty"`
	AadhaarFrontURL *string `json:"aadhaar_front_url,omitempty"`
	AadhaarBackURL  *string `json:"aadhaar_back_url,omitempty"`
	CasteIncomeURL  *string `json:"caste_income_url,omitempty"`

	SubmittedAt time.Time `json:"submitted_at"`
}

// AllottedBranch returns the branch of the selected admission channel, or ""
// when the channel has no branch assigned yet.
func (a *Admission) AllottedBranch() string {
	switch a.AdmissionThrough {
	case ChannelKEA:
		if a.AllottedBranchKEA != nil {
			return *a.AllottedBranchKEA
		}
	case ChannelManagement:
		if a.AllottedBranchManagement != nil {
			return *a.AllottedBranchManagement
		}
	}
	return ""
}

// SetDocumentURL assigns a stored document reference to its slot.
func (a *Admission) SetDocumentURL(slot DocumentSlot, url string) {
	switch slot {
	case SlotPhoto:
		a.PhotoURL = &url
	case SlotMarksCard:
		a.MarksCardURL = &url
	case SlotAadhaarFront:
		a.AadhaarFrontURL = &url
	case SlotAadhaarBack:
		a.AadhaarBackURL = &url
	case SlotCasteIncome:
		a.CasteIncomeURL = &url
	}
}

// DocumentURLs returns the populated slot → reference map.
func (a *Admission) DocumentURLs() map[DocumentSlot]string {
	docs := make(map[DocumentSlot]string)
	set := func(slot DocumentSlot, url *string) {
		if url != nil && *url != "" {
			docs[slot] = *url
		}
	}
	set(SlotPhoto, a.PhotoURL)
	set(SlotMarksCard, a.MarksCardURL)
	set(SlotAadhaarFront, a.AadhaarFrontURL)
	set(SlotAadhaarBack, a.AadhaarBackURL)
	set(SlotCasteIncome, a.CasteIncomeURL)
	return docs
}

// SubmitAdmissionRequest is the multipart field payload of the intake form.
// Channel-specific fields are enforced against admission_through; unknown
// form fields are ignored by binding.
type SubmitAdmissionRequest struct {
	StudentName        string `form:"student_name" binding:"required,min=2,max=255"`
	DOB                string `form:"dob" binding:"required,max=20"`
	FatherName         string `form:"father_name" binding:"required,max=255"`
	MotherName         string `form:"mother_name" binding:"omitempty,max=255"`
	MobileNumber       string `form:"mobile_number" binding:"required,numeric,min=10,max=15"`
	ParentMobileNumber string `form:"parent_mobile_number" binding:"omitempty,numeric,min=10,max=15"`
	Email              string `form:"email" binding:"required,email,max=255"`
	PermanentAddress   string `form:"permanent_address" binding:"omitempty,max=2000"`

	PreviousCollege     string `form:"previous_college" binding:"omitempty,max=255"`
	PreviousCombination string `form:"previous_combination" binding:"omitempty,max=50"`
	Category            string `form:"category" binding:"omitempty,max=50"`
	SubCaste            string `form:"sub_caste" binding:"omitempty,max=100"`

	AdmissionThrough AdmissionChannel `form:"admission_through" binding:"required,oneof=KEA MANAGEMENT"`

	CETNumber         string `form:"cet_number" binding:"required_if=AdmissionThrough KEA,max=100"`
	CETRank           string `form:"cet_rank" binding:"omitempty,max=50"`
	AllottedBranchKEA string `form:"allotted_branch_kea" binding:"omitempty,max=100"`

	SeatAllotted             string `form:"seat_allotted" binding:"required_if=AdmissionThrough MANAGEMENT,max=100"`
	AllottedBranchManagement string `form:"allotted_branch_management" binding:"omitempty,max=100"`
}

// ToAdmission maps the request onto a fresh record, populating only the
// selected channel's field group. The other channel's columns stay null.
func (r *SubmitAdmissionRequest) ToAdmission() *Admission {
	a := &Admission{
		StudentName:         r.StudentName,
		DOB:                 r.DOB,
		FatherName:          r.FatherName,
		MotherName:          r.MotherName,
		MobileNumber:        r.MobileNumber,
		ParentMobileNumber:  r.ParentMobileNumber,
		Email:               r.Email,
		PermanentAddress:    r.PermanentAddress,
		PreviousCollege:     r.PreviousCollege,
		PreviousCombination: r.PreviousCombination,
		Category:            r.Category,
		SubCaste:            r.SubCaste,
		AdmissionThrough:    r.AdmissionThrough,
	}

	optional := func(v string) *string {
		if v == "" {
			return nil
		}
		return &v
	}

	switch r.AdmissionThrough {
	case ChannelKEA:
		a.CETNumber = optional(r.CETNumber)
		a.CETRank = optional(r.CETRank)
		a.AllottedBranchKEA = optional(r.AllottedBranchKEA)
	case ChannelManagement:
		a.SeatAllotted = optional(r.SeatAllotted)
		a.AllottedBranchManagement = optional(r.AllottedBranchManagement)
	}

	return a
}

// RequiresCasteCertificate reports whether the caste/income certificate slot
// is mandatory for this applicant.
func (r *SubmitAdmissionRequest) RequiresCasteCertificate() bool {
	return r.Category != "" && r.Category != CategoryNotApplicable
}

// SubmitAdmissionResponse is returned after a durable submission.
type SubmitAdmissionResponse struct {
	AdmissionID      string                  `json:"admission_id"`
	SlipURL          string                  `json:"slip_url"`
	WhatsAppURL      string                  `json:"whatsapp_url"`
	Documents        map[DocumentSlot]string `json:"documents"`
	MissingDocuments []DocumentSlot          `json:"missing_documents,omitempty"`
}

// AdmissionEvent is the queue and live-feed payload published after a
// record is durably inserted.
type AdmissionEvent struct {
	AdmissionID  string           `json:"admission_id"`
	StudentName  string           `json:"student_name"`
	Branch       string           `json:"branch"`
	Channel      AdmissionChannel `json:"channel"`
	MobileNumber string           `json:"mobile_number"`
	SubmittedAt  time.Time        `json:"submitted_at"`
}
