package core

// Settings holds user preferences. Lifecycle is independent from the ledger
// snapshot; absent fields fall back to defaults field by field.
type Settings struct {
	Currency        string `json:"currency"`
	DateFormat      string `json:"dateFormat"`
	Theme           string `json:"theme"`
	AutoSave        bool   `json:"autoSave"`
	ExportFormat    string `json:"exportFormat"`
	DefaultCategory string `json:"defaultCategory"`
	CSVExportPath   string `json:"csvExportPath"`
}

func DefaultSettings() Settings {
	return Settings{
		Currency:        "₹",
		DateFormat:      "dd/MM/yyyy",
		Theme:           "light",
		AutoSave:        true,
		ExportFormat:    "csv",
		DefaultCategory: "",
		CSVExportPath:   "",
	}
}

// SettingsPatch carries a partial settings update; nil fields keep their
// current value.
type SettingsPatch struct {
	Currency        *string `json:"currency,omitempty"`
	DateFormat      *string `json:"dateFormat,omitempty"`
	Theme           *string `json:"theme,omitempty"`
	AutoSave        *bool   `json:"autoSave,omitempty"`
	ExportFormat    *string `json:"exportFormat,omitempty"`
	DefaultCategory *string `json:"defaultCategory,omitempty"`
	CSVExportPath   *string `json:"csvExportPath,omitempty"`
}

// Merge returns s with the patched fields replaced.
func (s Settings) Merge(p SettingsPatch) Settings {
	if p.Currency != nil {
		s.Currency = *p.Currency
	}
	if p.DateFormat != nil {
		s.DateFormat = *p.DateFormat
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.AutoSave != nil {
		s.AutoSave = *p.AutoSave
	}
	if p.ExportFormat != nil {
		s.ExportFormat = *p.ExportFormat
	}
	if p.DefaultCategory != nil {
		s.DefaultCategory = *p.DefaultCategory
	}
	if p.CSVExportPath != nil {
		s.CSVExportPath = *p.CSVExportPath
	}
	return s
}
