package models

type LoginRequest struct {
	Email    string `json:"email"    form:"email"`
	Password string `json:"password" form:"password"`
}

func (r LoginRequest) Raw() map[string]string {
	return map[string]string{"email": r.Email, "password": r.Password}
}

type ServiceAreaRequest struct {
	Location string `json:"location" form:"location"`
}

type ServiceAreaResult struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}
