package model

type APIResponse struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Error      *APIError   `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type APIError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details string       `json:"details,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}

type DeleteResult struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Deleted bool   `json:"deleted"`
}

type TableCount struct {
	Resource string `json:"resource"`
	Title    string `json:"title"`
	Table    string `json:"table"`
	Count    int    `json:"count"`
	Error    string `json:"error,omitempty"`
}

type Overview struct {
	Tables []TableCount `json:"tables"`
	Total  int          `json:"total"`
	Failed int          `json:"failed"`
}
