package dtos

type SendMailRequest struct {
	To            string `json:"to" binding:"required"`
	Cc            string `json:"cc"`
	Subject       string `json:"subject" binding:"required,max=998"`
	Body          string `json:"body" binding:"required"`
	ApplicationID string `json:"applicationId"`
}
