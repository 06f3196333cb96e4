package dto

// UpdateSettingRequest sets one system setting value. The value is carried as
// a string and validated against the setting's declared type.
type UpdateSettingRequest struct {
	Value string `json:"value" validate:"required"`
}

// SettingView is the public shape of a system setting.
type SettingView struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}
