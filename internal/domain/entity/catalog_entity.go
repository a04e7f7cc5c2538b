package entity

// Category groups password records (e.g. "Work", "Personal").
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Icon     string `json:"icon,omitempty"`
	IsActive bool   `json:"is_active"`
}

// AccountType describes the kind of account a record belongs to (e.g. "Email", "Bank").
type AccountType struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Icon     string `json:"icon,omitempty"`
	IsActive bool   `json:"is_active"`
}

// Subcategory narrows an AccountType (e.g. "Gmail" under "Email").
type Subcategory struct {
	ID            string `json:"id"`
	AccountTypeID string `json:"account_type_id"`
	Name          string `json:"name"`
	Icon          string `json:"icon,omitempty"`
	IsActive      bool   `json:"is_active"`
}
