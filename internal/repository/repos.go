package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repos bundles every repository over one database handle so services can
// run multi-entity work in a single transaction.
type Repos struct {
	Users         UserRepository
	Codes         CodeRepository
	Posts         PostRepository
	Comments      CommentRepository
	Likes         LikeRepository
	Follows       FollowRepository
	Friends       FriendRepository
	Notifications NotificationRepository
	Reports       ReportRepository
	AuditLogs     AuditLogRepository
	Media         MediaRepository

	db *gorm.DB
}

// NewRepos builds GORM-backed repositories over db.
func NewRepos(db *gorm.DB) Repos {
	return Repos{
		Users:         NewUserRepository(db),
		Codes:         NewCodeRepository(db),
		Posts:         NewPostRepository(db),
		Comments:      NewCommentRepository(db),
		Likes:         NewLikeRepository(db),
		Follows:       NewFollowRepository(db),
		Friends:       NewFriendRepository(db),
		Notifications: NewNotificationRepository(db),
		Reports:       NewReportRepository(db),
		AuditLogs:     NewAuditLogRepository(db),
		Media:         NewMediaRepository(db),
		db:            db,
	}
}

// WithTransaction runs fn with repositories bound to one transaction; any
// error rolls the whole unit back. With no database handle (unit tests over
// mock repositories) fn runs directly.
func (r Repos) WithTransaction(ctx context.Context, fn func(tx Repos) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepos(tx))
	})
}

// Page describes a pagination request.
type Page struct {
	Number  int
	PerPage int
}

// Clamp normalizes out-of-range pagination values.
func (p Page) Clamp() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.PerPage < 1 {
		p.PerPage = 20
	}
	if p.PerPage > 100 {
		p.PerPage = 100
	}
	return p
}

// Offset returns the row offset for the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// PageInfo describes a pagination result.
type PageInfo struct {
	Total       int64 `json:"total"`
	Pages       int   `json:"pages"`
	CurrentPage int   `json:"current_page"`
}

// NewPageInfo derives the response pagination block.
func NewPageInfo(total int64, p Page) *PageInfo {
	p = p.Clamp()
	pages := int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	return &PageInfo{Total: total, Pages: pages, CurrentPage: p.Number}
}
