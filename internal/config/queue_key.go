package config

// QueueKeyStruct names the Redis lists and channels used to decouple
// post-persistence side effects from the submission request path.
type QueueKeyStruct struct {
	NotifyQueue string
	SlipQueue   string
	FeedChannel string
}

var QueueKey = &QueueKeyStruct{
	NotifyQueue: "admission_notify_queue",
	SlipQueue:   "admission_slip_queue",
	FeedChannel: "admissions:feed",
}
