package core

// Notice kinds.
const (
	NoticeSuccess = "success"
	NoticeInfo    = "info"
	NoticeWarning = "warning"
	NoticeError   = "error"
)

// Notice is a fire-and-forget event shown to a user (toast/banner).
type Notice struct {
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message,omitempty"`
}

// NotificationSink receives notices addressed to a user.
// Delivery is best effort: no acknowledgment, no retry, no ordering guarantee
// beyond call order.
type NotificationSink interface {
	Notify(userID string, notice Notice)
}
