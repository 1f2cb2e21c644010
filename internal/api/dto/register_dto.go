package dto

// RegisterRequest is the manual registration payload.
type RegisterRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RegisterResponse is returned with 201 on successful manual registration.
type RegisterResponse struct {
	Ticket   IssuedTicketPayload `json:"ticket"`
	Redirect string              `json:"redirect"`
}
