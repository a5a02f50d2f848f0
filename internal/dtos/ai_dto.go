package dtos

type AIJob struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	ApplyURL    string `json:"applyUrl"`
}

type AIContact struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Email    string `json:"email"`
	LinkedIn string `json:"linkedin"`
}

// AIRequest is the body of POST /ai. Fields beyond Action and Job are
// read only by the actions that need them.
type AIRequest struct {
	Action  string     `json:"action" binding:"required"`
	Job     AIJob      `json:"job"`
	Contact *AIContact `json:"contact"`
	Resume  string     `json:"resume" binding:"max=50000"`
	Variant string     `json:"variant"`
}
