package model

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type User struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Role   string `json:"role"`
}

// NotesRequest stages the documentation step: free-text notes and/or a
// photographed page. At least one must be present before generation.
type NotesRequest struct {
	Notes     string `json:"notes"`
	Image     string `json:"image,omitempty"` // base64-encoded
	ImageMIME string `json:"image_mime,omitempty"`
}

type PolishRequest struct {
	Notes string `json:"notes" binding:"required"`
}

type PolishResponse struct {
	Notes string `json:"notes"`
}

type BrandColorResponse struct {
	BrandColor string `json:"brand_color"`
}

type EmailDraftResponse struct {
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	Clipboard string `json:"clipboard"`
}

// SessionView is the wizard snapshot returned to the client. The raw image
// bytes stay server-side; only their presence is reported.
type SessionView struct {
	ID       string       `json:"id"`
	Step     int          `json:"step"`
	Company  CompanyInfo  `json:"company"`
	Employee EmployeeInfo `json:"employee"`
	Notes    string       `json:"notes"`
	HasImage bool         `json:"has_image"`
	Report   *ReportData  `json:"report,omitempty"`
}
