package model

import "testing"

func kea(branch string) *SubmitAdmissionRequest {
	return &SubmitAdmissionRequest{
		StudentName:       "Anita Rao",
		DOB:               "2007-03-12",
		FatherName:        "Suresh Rao",
		MobileNumber:      "9876543210",
		Email:             "anita@example.com",
		AdmissionThrough:  ChannelKEA,
		CETNumber:         "CET123456",
		CETRank:           "1042",
		AllottedBranchKEA: branch,
		SeatAllotted:      "should-be-dropped",
	}
}

func TestToAdmissionPopulatesOnlySelectedChannel(t *testing.T) {
	a := kea("CSE").ToAdmission()

	if a.CETNumber == nil || *a.CETNumber != "CET123456" {
		t.Error("CET number not carried over for KEA channel")
	}
	if a.SeatAllotted != nil {
		t.Errorf("management field leaked into KEA record: %q", *a.SeatAllotted)
	}

	req := &SubmitAdmissionRequest{
		AdmissionThrough:         ChannelManagement,
		SeatAllotted:             "MGMT",
		AllottedBranchManagement: "ECE",
		CETNumber:                "should-be-dropped",
	}
	m := req.ToAdmission()
	if m.CETNumber != nil {
		t.Errorf("KEA field leaked into management record: %q", *m.CETNumber)
	}
	if m.SeatAllotted == nil || *m.SeatAllotted != "MGMT" {
		t.Error("seat allotted not carried over for management channel")
	}
}

func TestAllottedBranch(t *testing.T) {
	if got := kea("CSE").ToAdmission().AllottedBranch(); got != "CSE" {
		t.Errorf("AllottedBranch() = %q, want CSE", got)
	}
	if got := kea("").ToAdmission().AllottedBranch(); got != "" {
		t.Errorf("AllottedBranch() with no branch = %q, want empty", got)
	}
}

func TestRequiresCasteCertificate(t *testing.T) {
	tests := []struct {
		category string
		want     bool
	}{
		{"", false},
		{CategoryNotApplicable, false},
		{"2A", true},
		{"SC", true},
	}
	for _, tt := range tests {
		req := kea("CSE")
		req.Category = tt.category
		if got := req.RequiresCasteCertificate(); got != tt.want {
			t.Errorf("RequiresCasteCertificate(%q) = %v, want %v", tt.category, got, tt.want)
		}
	}
}

func TestDocumentURLs(t *testing.T) {
	a := kea("CSE").ToAdmission()
	a.SetDocumentURL(SlotPhoto, "/uploads/photo_abc.jpg")
	a.SetDocumentURL(SlotMarksCard, "/uploads/marks_card_def.pdf")

	docs := a.DocumentURLs()
	if len(docs) != 2 {
		t.Fatalf("DocumentURLs() returned %d entries, want 2", len(docs))
	}
	if docs[SlotPhoto] != "/uploads/photo_abc.jpg" {
		t.Errorf("photo URL = %q", docs[SlotPhoto])
	}
	if _, ok := docs[SlotCasteIncome]; ok {
		t.Error("unset slot present in DocumentURLs()")
	}
}
