package domain

import "errors"

var (
	MessageSuccessAddToList      = "recipe added to list"
	MessageSuccessRemoveFromList = "recipe removed from list"
	MessageSuccessSubscribe      = "subscribed successfully"
	MessageSuccessUnsubscribe    = "unsubscribed successfully"
	MessageSuccessSubscriptions  = "success get subscriptions"

	MessageFailedAddToList      = "failed to add recipe to list"
	MessageFailedRemoveFromList = "failed to remove recipe from list"
	MessageFailedSubscribe      = "failed to subscribe"
	MessageFailedUnsubscribe    = "failed to unsubscribe"
	MessageFailedSubscriptions  = "failed to get subscriptions"

	ErrAlreadyInList     = errors.New("recipe already added to list")
	ErrNotInList         = errors.New("recipe not found in list")
	ErrAlreadySubscribed = errors.New("already subscribed to this author")
	ErrNotSubscribed     = errors.New("not subscribed to this author")
	ErrSelfSubscription  = errors.New("cannot subscribe to yourself")
)

type (
	// MembershipResponse echoes the recipe summary plus the id of the created
	// membership row.
	MembershipResponse struct {
		RecipeSummary
		ModelID string `json:"model_id"`
	}

	// SubscriptionEntry is one followed author with their recipes, optionally
	// truncated to the caller-supplied recipes limit.
	SubscriptionEntry struct {
		UserProfile
		Recipes      []RecipeSummary `json:"recipes"`
		RecipesCount int             `json:"recipes_count"`
	}
)
