package dto

type PresenceUpdateRequest struct {
	Room     string `json:"room" query:"room"`
	Identity string `json:"identity" query:"identity"`
	Action   string `json:"action" query:"action"`
}

type PresenceResponse struct {
	Room         string   `json:"room"`
	Participants []string `json:"participants"`
	Count        int      `json:"count"`
}
