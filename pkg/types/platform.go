package types

// UserProfile is a platform account (creator or reader).
type UserProfile struct {
	UID string `json:"uid" example:"u_9f2c1b"`
	// example: ada@example.com
	Email    string `json:"email" example:"ada@example.com"`
	Username string `json:"username,omitempty" example:"ada"`
	// Role is either creator or reader.
	// example: creator
	Role      string `json:"role" example:"creator"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Bio       string `json:"bio,omitempty"`
	CreatedAt int64  `json:"created_at_unix"`
	UpdatedAt int64  `json:"updated_at_unix,omitempty"`
}

// UpdateUserRequest carries the mutable profile fields.
type UpdateUserRequest struct {
	Username  *string `json:"username,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// CreditPackage is a purchasable credit bundle (display-only in free launch mode).
type CreditPackage struct {
	ID           string `json:"id" example:"free"`
	Name         string `json:"name" example:"Launch Special"`
	Credits      int64  `json:"credits" example:"1000"`
	PriceCents   int64  `json:"price_cents" example:"0"`
	PriceDisplay string `json:"price_display" example:"FREE"`
	Badge        string `json:"badge,omitempty" example:"Limited Time"`
}

// CreditBalance is returned by GET /api/credits/balance/{uid}.
type CreditBalance struct {
	UID     string `json:"uid"`
	Balance int64  `json:"balance" example:"1000"`
	// True while the platform grants free credits to every account.
	FreeLaunch bool `json:"free_launch"`
}

// CreditTransaction records one grant or debit.
type CreditTransaction struct {
	ID     string `json:"id" example:"txn_4f1a2b3c4d"`
	UID    string `json:"uid"`
	Amount int64  `json:"amount" example:"-5"`
	// Why the balance changed (grant, image_generation, story_generation, chat).
	// example: image_generation
	Reason    string `json:"reason" example:"image_generation"`
	CreatedAt int64  `json:"created_at_unix"`
}

// UseCreditsRequest is the payload for POST /api/credits/use.
type UseCreditsRequest struct {
	UID    string `json:"uid"`
	Amount int64  `json:"amount" example:"5"`
	Reason string `json:"reason,omitempty" example:"image_generation"`
}

// Series is a comic series owned by a creator.
type Series struct {
	ID            string `json:"id" example:"ser_4f1a2b3c4d"`
	CreatorUID    string `json:"creator_uid"`
	Title         string `json:"title" example:"Moonlit Blade"`
	Description   string `json:"description,omitempty"`
	Genre         string `json:"genre,omitempty" example:"fantasy"`
	Tags          string `json:"tags,omitempty"`
	CoverImageURL string `json:"cover_image_url,omitempty"`
	Published     bool   `json:"published"`
	Views         int64  `json:"views"`
	CreatedAt     int64  `json:"created_at_unix"`
	UpdatedAt     int64  `json:"updated_at_unix,omitempty"`
}

// UpdateSeriesRequest carries the mutable series fields.
type UpdateSeriesRequest struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	Genre         *string `json:"genre,omitempty"`
	Tags          *string `json:"tags,omitempty"`
	CoverImageURL *string `json:"cover_image_url,omitempty"`
}

// Episode is one installment of a series.
type Episode struct {
	ID            string  `json:"id" example:"ep_4f1a2b3c4d"`
	SeriesID      string  `json:"series_id"`
	CreatorUID    string  `json:"creator_uid"`
	Title         string  `json:"title"`
	EpisodeNumber int     `json:"episode_number"`
	Published     bool    `json:"published"`
	Panels        []Panel `json:"panels,omitempty"`
	CreatedAt     int64   `json:"created_at_unix"`
	UpdatedAt     int64   `json:"updated_at_unix,omitempty"`
}

// Panel is a single generated image within an episode.
type Panel struct {
	ID       string `json:"id" example:"pan_4f1a2b3c4d"`
	ImageURL string `json:"image_url"`
	Caption  string `json:"caption,omitempty"`
	Order    int    `json:"order"`
}

// ReadingProgress tracks where a reader stopped in a series.
type ReadingProgress struct {
	UserID     string `json:"user_id"`
	SeriesID   string `json:"series_id"`
	EpisodeID  string `json:"episode_id"`
	PageNumber int    `json:"page_number" example:"3"`
	Completed  bool   `json:"completed"`
	LastRead   int64  `json:"last_read_unix"`
}
