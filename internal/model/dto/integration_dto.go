package dto

// TweetRequest 发推请求
type TweetRequest struct {
	Text string `json:"text" binding:"required,max=280"`
}

// TweetResponse 发推结果
type TweetResponse struct {
	TweetID string `json:"tweetId"`
}

// ConnectResponse 第三方授权跳转地址
type ConnectResponse struct {
	AuthURL string `json:"authUrl"`
}
