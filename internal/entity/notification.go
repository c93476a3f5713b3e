package entity

// Notification is an unacknowledged trade alert tied to a symbol. It is
// created by the remote service when a trade condition fires and dropped
// locally on a successful exit/edit action or when a refreshed alert
// list no longer carries the symbol.
type Notification struct {
	Symbol  string `json:"symbol"`
	Message string `json:"message"`
}
