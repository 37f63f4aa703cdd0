package kafka

// HistoryMessage mirrors one message-log entry onto the history topic.
type HistoryMessage struct {
	Username string `json:"username"`
	Message  string `json:"message"`
	Reply    string `json:"reply"`
	Status   string `json:"status"`
	Ts       int64  `json:"ts_ms"`
}

type DLQMessage struct {
	HistoryMessage
	Error string `json:"error"`
	Retry int    `json:"retry_count"`
}
