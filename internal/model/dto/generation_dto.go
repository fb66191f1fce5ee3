package dto

// GenerateRequest 内容改写请求
type GenerateRequest struct {
	URL       string   `json:"url" binding:"required,max=1000"`
	Tone      string   `json:"tone,omitempty"`
	Platforms []string `json:"platforms,omitempty"`
}

// GenerateResponse 改写结果
type GenerateResponse struct {
	Result       map[string]interface{} `json:"result"`
	Credits      int                    `json:"credits"`
	GenerationID int64                  `json:"generationId"`
}

// GenerationItem 历史记录项
type GenerationItem struct {
	ID        int64    `json:"id"`
	SourceURL string   `json:"sourceUrl"`
	Tone      string   `json:"tone,omitempty"`
	Platforms []string `json:"platforms"`
	Tweets    []string `json:"tweets,omitempty"`
	Linkedin  string   `json:"linkedin,omitempty"`
	Instagram string   `json:"instagram,omitempty"`
	Facebook  string   `json:"facebook,omitempty"`
	Email     string   `json:"email,omitempty"`
	CreatedAt string   `json:"createdAt"`
}

// GenerationListResponse 历史记录列表
type GenerationListResponse struct {
	Generations []GenerationItem `json:"generations"`
	Credits     int              `json:"credits"`
}

// ExportResponse 历史导出结果
type ExportResponse struct {
	URL       string `json:"url"`
	Count     int    `json:"count"`
	ExpiresIn int64  `json:"expiresIn"`
}

// OptionsResponse 表单可选项
type OptionsResponse struct {
	Tones     []ToneOption  `json:"tones"`
	Platforms []string      `json:"platforms"`
	Package   PackageOption `json:"package"`
}

// ToneOption 语气选项
type ToneOption struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PackageOption 积分套餐
type PackageOption struct {
	Credits  int    `json:"credits"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}
