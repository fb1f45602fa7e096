package dto

// WebhookBody is the callback payload SRS posts on connect, close,
// publish, unpublish and play events.
type WebhookBody struct {
	Action   string `json:"action"`
	ClientID string `json:"client_id"`
	IP       string `json:"ip"`
	Vhost    string `json:"vhost"`
	App      string `json:"app"`
	Stream   string `json:"stream"`
	Param    string `json:"param,omitempty"`
}

// WebhookResponse follows the SRS hook protocol: code 0 allows the action.
type WebhookResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func WebhookOK() WebhookResponse {
	return WebhookResponse{Code: 0, Message: "success"}
}

func WebhookRejected(message string) WebhookResponse {
	return WebhookResponse{Code: 1, Message: message}
}
