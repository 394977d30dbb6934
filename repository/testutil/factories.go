package testutil

import (
	"fmt"
	"time"

	"raffler/domain/entities"
)

// CreateTestUser creates a test user with default values
func CreateTestUser(email string) *entities.User {
	return &entities.User{
		Email:    email,
		FullName: "Test User",
	}
}

// CreateTestGiveaway creates an open test giveaway with the given capacity
func CreateTestGiveaway(code string, capacity int64) *entities.Giveaway {
	return &entities.Giveaway{
		Code:           code,
		Title:          fmt.Sprintf("Giveaway %s", code),
		PriceCents:     500,
		TotalAvailable: capacity,
		ExpiresAt:      time.Now().Add(30 * 24 * time.Hour),
		IsActive:       true,
	}
}

// CreateTestGrant creates a succeeded purchase grant holding the given tickets
func CreateTestGrant(userID, giveawayID int64, ticketIDs []string) *entities.TicketGrant {
	return &entities.TicketGrant{
		UserID:        userID,
		GiveawayID:    giveawayID,
		Quantity:      int64(len(ticketIDs)),
		TicketIDs:     ticketIDs,
		Source:        entities.GrantSourcePurchase,
		PaymentStatus: entities.PaymentStatusSucceeded,
	}
}

// CreateTestGrantWithSource creates a succeeded grant from a specific source
func CreateTestGrantWithSource(userID, giveawayID int64, ticketIDs []string, source entities.GrantSource) *entities.TicketGrant {
	grant := CreateTestGrant(userID, giveawayID, ticketIDs)
	grant.Source = source
	return grant
}

// CreateTestQuota creates an active subscription quota
func CreateTestQuota(userID int64, cycle entities.BillingCycle, entitlement int64) *entities.SubscriptionQuota {
	return &entities.SubscriptionQuota{
		UserID:       userID,
		PlanName:     "standard",
		BillingCycle: cycle,
		Entitlement:  entitlement,
		IsActive:     true,
		EndDate:      time.Now().Add(365 * 24 * time.Hour),
	}
}

// CreateTestPool creates a consolidated pool for a user
func CreateTestPool(userID int64, email string, ticketIDs []string) *entities.TicketPool {
	return &entities.TicketPool{
		UserID:    userID,
		Email:     email,
		FullName:  "Test User",
		TicketIDs: ticketIDs,
	}
}
