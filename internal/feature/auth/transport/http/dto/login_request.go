package dto

// LoginReq は/loginエンドポイントのリクエストボディを表します。
type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenRes はログイン成功時のレスポンスです。
type TokenRes struct {
	Token string `json:"token"`
}
