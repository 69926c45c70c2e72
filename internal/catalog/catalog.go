package catalog

// 模型目录与尺寸表是进程级静态配置：费用与可用性以服务端为准，
// 不信任客户端传入的任何成本信息。

const (
	ModelSDXL                   = "sdxl"
	ModelAnimagineXL4           = "animagine-xl-4.0"
	ModelStableDiffusion35Large = "stable-diffusion-3.5-large"
)

const (
	ProviderHuggingFace = "HuggingFace"
	ProviderSiliconFlow = "SiliconFlow"
)

// MaxPromptLength 提示词的最大长度（字符数）。
const MaxPromptLength = 4000

// DefaultAspectRatio 默认宽高比。
const DefaultAspectRatio = "1:1"

// ModelOption 描述一个可选模型的配置。
type ModelOption struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Cost        int64  `json:"cost"`
	Provider    string `json:"provider"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
}

// ImageSize 宽高比对应的像素尺寸。
type ImageSize struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Label  string `json:"label"`
}

var modelOptions = []ModelOption{
	{
		ID:          ModelSDXL,
		Label:       "Stable Diffusion XL",
		Cost:        1,
		Provider:    ProviderHuggingFace,
		Description: "High-resolution image generation with excellent detail",
		Available:   true,
	},
	{
		ID:          ModelAnimagineXL4,
		Label:       "Animagine XL 4.0",
		Cost:        1,
		Provider:    ProviderHuggingFace,
		Description: "High-quality anime-style image generation",
		Available:   true,
	},
	{
		ID:          ModelStableDiffusion35Large,
		Label:       "Stable Diffusion 3.5 Large",
		Cost:        1,
		Provider:    ProviderSiliconFlow,
		Description: "Open-source model with strong artistic capabilities",
		Available:   false,
	},
}

// hfModelRepos 模型ID到 Hugging Face 仓库ID的映射。
var hfModelRepos = map[string]string{
	ModelSDXL:         "stabilityai/stable-diffusion-xl-base-1.0",
	ModelAnimagineXL4: "cagliostrolab/animagine-xl-4.0",
}

var imageSizes = map[string]ImageSize{
	"1:1":  {Width: 1024, Height: 1024, Label: "1:1 (Square)"},
	"16:9": {Width: 1792, Height: 1024, Label: "16:9 (Landscape)"},
	"9:16": {Width: 1024, Height: 1792, Label: "9:16 (Portrait)"},
	"4:3":  {Width: 1024, Height: 768, Label: "4:3 (Standard)"},
	"3:4":  {Width: 768, Height: 1024, Label: "3:4 (Tall)"},
}

// ModelByID 按ID查找模型配置。未知模型返回 false，调用方必须在
// 扣减积分或发起任何网络调用之前拒绝请求，不做成本兜底。
func ModelByID(id string) (ModelOption, bool) {
	for _, option := range modelOptions {
		if option.ID == id {
			return option, true
		}
	}
	return ModelOption{}, false
}

// AvailableModels 返回当前可用的模型。
func AvailableModels() []ModelOption {
	out := make([]ModelOption, 0, len(modelOptions))
	for _, option := range modelOptions {
		if option.Available {
			out = append(out, option)
		}
	}
	return out
}

// AllModels 返回全部模型配置的副本。
func AllModels() []ModelOption {
	out := make([]ModelOption, len(modelOptions))
	copy(out, modelOptions)
	return out
}

// HuggingFaceRepoID 返回模型对应的 HF 仓库ID。
func HuggingFaceRepoID(modelID string) (string, bool) {
	repo, ok := hfModelRepos[modelID]
	return repo, ok
}

// SizeFor 返回宽高比对应的像素尺寸。
func SizeFor(aspectRatio string) (ImageSize, bool) {
	size, ok := imageSizes[aspectRatio]
	return size, ok
}
