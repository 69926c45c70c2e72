package entity

import "time"

const (
	OutputTypeImage = "IMAGE"
	OutputTypeVideo = "VIDEO"
	OutputTypeAudio = "AUDIO"
)

const (
	GenerationStatusPending   = "PENDING"
	GenerationStatusCompleted = "COMPLETED"
	GenerationStatusFailed    = "FAILED"
)

// DbGeneration 表示一次已完成的内容生成记录。
//
// 记录在上传成功后一次性创建，创建后不再修改。
type DbGeneration struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OutputType string `gorm:"column:output_type;type:varchar(32);not null;default:IMAGE" json:"output_type"`
	Status     string `gorm:"column:status;type:varchar(32);not null;default:COMPLETED" json:"status"`

	URL        string `gorm:"column:url;type:text;not null" json:"url"`
	StorageKey string `gorm:"column:storage_key;type:varchar(255);not null" json:"storage_key"`
	MimeType   string `gorm:"column:mime_type;type:varchar(128)" json:"mime_type"`

	Width    int `gorm:"column:width" json:"width"`
	Height   int `gorm:"column:height" json:"height"`
	Duration int `gorm:"column:duration" json:"duration,omitempty"` // 秒，预留给视频/音频输出

	Prompt         string `gorm:"column:prompt;type:text;not null" json:"prompt"`
	NegativePrompt string `gorm:"column:negative_prompt;type:text" json:"negative_prompt,omitempty"`

	Model       string `gorm:"column:model;type:varchar(128);index" json:"model"`
	Provider    string `gorm:"column:provider;type:varchar(64);index" json:"provider"`
	CreditsCost int64  `gorm:"column:credits_cost;not null" json:"credits_cost"`

	IsPublic bool `gorm:"column:is_public;not null;default:true;index" json:"is_public"`

	// UserID 为空表示游客生成。
	UserID *uint   `gorm:"column:user_id;index" json:"user_id,omitempty"`
	User   *DbUser `gorm:"foreignKey:UserID" json:"-"`
}

// TableName 指定表名
func (DbGeneration) TableName() string {
	return "generations"
}
