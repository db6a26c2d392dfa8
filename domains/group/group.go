package group

import "context"

// Group is a messaging group the backend can deliver to.
type Group struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MemberCount int    `json:"memberCount"`
}

// PromoteSummary is the outcome of a bulk bot-promotion run.
type PromoteSummary struct {
	Promoted     int `json:"promoted"`
	AlreadyAdmin int `json:"alreadyAdmin"`
}

// IGroupAPI is the backend surface for group listing and the
// fire-and-forget bot promotion.
type IGroupAPI interface {
	ListGroups(ctx context.Context) ([]Group, error)
	PromoteBot(ctx context.Context) (PromoteSummary, error)
}

// IFavoritesRepository persists the operator's favorite groups locally.
// The composer injects it; nothing else writes favorites.
type IFavoritesRepository interface {
	List(ctx context.Context) ([]string, error)
	Toggle(ctx context.Context, groupID string) (favored bool, err error)
}

// IPromoteUsecase runs the bulk promotion and journals its summary.
type IPromoteUsecase interface {
	PromoteBotAdmin(ctx context.Context) (PromoteSummary, error)
}
