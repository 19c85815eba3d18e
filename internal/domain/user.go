package domain

// User is the profile behind the API token.
type User struct {
	ID                 int64  `json:"id"`
	Email              string `json:"email"`
	Fullname           string `json:"fullname"`
	Timezone           string `json:"timezone"`
	BeginningOfWeek    int    `json:"beginning_of_week"` // 0 = Sunday
	DefaultWorkspaceID int64  `json:"default_workspace_id"`
}

// QuotaEntry is one bucket of the API request quota. A nil OrganizationID
// denotes the per-user bucket.
type QuotaEntry struct {
	OrganizationID *int64 `json:"organization_id"`
	Remaining      int    `json:"remaining"`
	Total          int    `json:"total"`
	ResetsInSecs   int    `json:"resets_in_secs"`
}
