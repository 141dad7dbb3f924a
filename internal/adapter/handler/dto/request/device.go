package request

type ListDevicesRequest struct {
	Page    int    `form:"page" binding:"omitempty,min=1"`
	PerPage int    `form:"per_page" binding:"omitempty,min=1,max=100"`
	Mode    string `form:"mode" binding:"omitempty,oneof=NORMAL REGISTRASI"`
}
