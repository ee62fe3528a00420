package excel

// SheetConfig holds configuration for a labelled sample sheet
type SheetConfig struct {
	FilePath string `json:"file_path" yaml:"file_path"`

	// SheetName selects the worksheet in xlsx files. Empty means the first sheet.
	SheetName string `json:"sheet_name" yaml:"sheet_name"`

	// TargetColumn holds the measured calories.
	TargetColumn string `json:"target_column" yaml:"target_column"`

	// MaxRows stops reading after this many data rows. Zero reads everything.
	MaxRows int `json:"max_rows" yaml:"max_rows"`
}

// DefaultSheetConfig returns defaults matching the public calories dataset
func DefaultSheetConfig(path string) SheetConfig {
	return SheetConfig{
		FilePath:     path,
		TargetColumn: "Calories",
	}
}
