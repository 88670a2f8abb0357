package domain

// Page is a dashboard view a session can be navigated to.
type Page string

const (
	PageLeaderboard     Page = "leaderboard"
	PageTopGames        Page = "top-games"
	PageMonthlyActivity Page = "monthly-activity"
	PageWallets         Page = "wallets"
)

// Valid checks if the page is known.
func (p Page) Valid() bool {
	switch p {
	case PageLeaderboard, PageTopGames, PageMonthlyActivity, PageWallets:
		return true
	default:
		return false
	}
}

// ViewState distinguishes a populated view from one with nothing to show.
// Fetch failures are reported as errors, not as a state.
type ViewState string

const (
	ViewStateReady ViewState = "ready"
	ViewStateEmpty ViewState = "empty"
)
