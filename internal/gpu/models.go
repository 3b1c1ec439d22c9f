package gpu

// Record is one GPU specification row. Brand and name are always present;
// the performance fields are free text carrying their own unit ("12.5 TFLOPS",
// "24 GB") and stay unparsed until a consumer normalizes them.
type Record struct {
	ID          uint64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Brand       string   `gorm:"type:varchar(64);not null;index" json:"brand"`
	Name        string   `gorm:"type:varchar(128);not null;index" json:"name"`
	ReleaseYear *int     `gorm:"index" json:"release_year"`
	LaunchPrice *float64 `json:"launch_price"`
	PixelRate   string   `gorm:"type:varchar(64)" json:"pixel_rate"`
	TextureRate string   `gorm:"type:varchar(64)" json:"texture_rate"`
	FP16        string   `gorm:"type:varchar(64)" json:"fp16"`
	FP32        string   `gorm:"type:varchar(64)" json:"fp32"`
	FP64        string   `gorm:"type:varchar(64)" json:"fp64"`
	MemorySize  string   `gorm:"type:varchar(64)" json:"memory_size"`
	SourceURL   string   `gorm:"type:varchar(512)" json:"source_url"`
}

func (Record) TableName() string { return "gpus" }
