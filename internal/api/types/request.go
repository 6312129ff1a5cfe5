package types

// PaginationRequest represents pagination parameters in requests
type PaginationRequest struct {
	Page   int    `form:"page,default=1" binding:"min=1"`
	Limit  int    `form:"limit,default=20" binding:"min=1,max=100"`
	Search string `form:"search" binding:"max=100"`
	Sort   string `form:"sort" binding:"max=50"`
}
