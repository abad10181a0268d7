package jobs

import (
	"context"
	"time"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/logger"
)

// systemActor is the identity scheduled jobs act as.
var systemActor = domain.Actor{Role: domain.RoleAdmin}

// MarkOverdueRentals flips renting rentals past their due_date to overdue
func (jr *JobRunner) MarkOverdueRentals() {
	jr.runWithRecovery("MarkOverdueRentals", func() {
		ctx := context.Background()

		rentals, err := jr.services.Rental.MarkOverdueRentals(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to mark overdue rentals", "error", err)
			return
		}

		logger.Info("Marked rentals as overdue", "count", len(rentals))
		for _, rental := range rentals {
			logger.Debug("Marked rental as overdue",
				"rental_id", rental.ID,
				"user_id", rental.UserID,
				"due_date", rental.DueDate.Format(domain.DateLayout))
		}
	})
}

// SendOverdueReminders emails the owner of every overdue rental
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()

		rentals, _, err := jr.services.Rental.ListRentals(ctx, systemActor,
			domain.RentalFilter{Status: domain.RentalStatusOverdue}, 1, 500)
		if err != nil {
			logger.Error("Failed to list overdue rentals", "error", err)
			return
		}

		sent := 0
		for _, rental := range rentals {
			user, err := jr.services.Users.GetByID(ctx, rental.UserID)
			if err != nil {
				logger.Warn("Skipping overdue reminder, user lookup failed",
					"rental_id", rental.ID, "user_id", rental.UserID, "error", err)
				continue
			}
			if err := jr.services.Email.SendOverdueReminder(ctx, user.Email, user.FullName, rental.ID, rental.DueDate); err != nil {
				logger.Warn("Failed to send overdue reminder",
					"rental_id", rental.ID, "email", user.Email, "error", err)
				continue
			}
			sent++
		}

		logger.Info("Sent overdue reminders", "overdue", len(rentals), "sent", sent)
	})
}
