package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/prayerly/prayerly-api/internal/config"
	"github.com/prayerly/prayerly-api/internal/model"
	"github.com/prayerly/prayerly-api/internal/recurrence"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	// Load config
	cfg := config.Load()

	// Force DB logging off to avoid noise
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Connected to Database")

	// Common password for all users
	password := "password123"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	log.Println("🌱 Seeding 5 users...")

	for i := 1; i <= 5; i++ {
		username := fmt.Sprintf("user%d", i)
		email := fmt.Sprintf("user%d@prayerly.local", i)

		// Check if exists
		var existing model.User
		if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
			continue
		}

		now := time.Now()
		user := model.User{
			ID:              uuid.New(),
			Name:            fmt.Sprintf("User Number %d", i),
			Email:           email,
			Password:        string(hashedPassword),
			EmailVerifiedAt: &now, // Verified immediately
			Timezone:        "UTC",
			Avatar:          fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%s", username),
		}

		if err := db.Create(&user).Error; err != nil {
			log.Printf("❌ Failed to create user %s: %v", username, err)
			continue
		}
		log.Printf("✅ Created user: %s | Email: %s | Pass: %s", username, email, password)

		seedPrayers(db, user)
	}

	log.Println("🎉 Seeding completed!")
}

// seedPrayers gives a user a small journal with one daily and one weekly reminder
func seedPrayers(db *gorm.DB, user model.User) {
	samples := []struct {
		title       string
		description string
		category    string
		recurrence  recurrence.Type
		daysOfWeek  []int
	}{
		{"Health for Mom", "Praying for my mother's recovery", string(model.CategoryHealth), recurrence.TypeDaily, nil},
		{"Guidance at work", "Wisdom for the new project", string(model.CategoryWork), recurrence.TypeWeekly, []int{1, 4}},
		{"Gratitude", "Thankful for this week", string(model.CategoryPersonal), "", nil},
	}

	for _, s := range samples {
		prayer := model.Prayer{
			ID:          uuid.New(),
			UserID:      user.ID,
			Title:       s.title,
			Description: s.description,
			Category:    s.category,
		}
		if err := db.Create(&prayer).Error; err != nil {
			log.Printf("❌ Failed to create prayer %q: %v", s.title, err)
			continue
		}

		if s.recurrence == "" {
			continue
		}

		now := time.Now().UTC()
		tomorrow := now.AddDate(0, 0, 1)
		firstRun := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 9, 0, 0, 0, time.UTC)

		reminder := model.Reminder{
			ID:             uuid.New(),
			UserID:         user.ID,
			PrayerID:       prayer.ID,
			RecurrenceType: s.recurrence,
			TimeOfDay:      "09:00:00",
			DaysOfWeek:     s.daysOfWeek,
			StartDate:      now,
			NextRunAt:      &firstRun,
			Timezone:       "UTC",
			Channels:       []string{model.ChannelEmail},
			Destination:    model.Destination{Email: user.Email},
			IsActive:       true,
		}
		if err := db.Create(&reminder).Error; err != nil {
			log.Printf("❌ Failed to create reminder for %q: %v", s.title, err)
		}
	}

	log.Printf("🙏 Seeded journal for %s", user.Email)
}
