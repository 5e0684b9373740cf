package main

import (
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"consultly/internal/database"
	"consultly/internal/domain"
	"consultly/internal/modules/availability"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "consultly.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM sync_log_entries")
	db.Exec("DELETE FROM audit_log_entries")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM time_slots")
	db.Exec("DELETE FROM availabilities")
	db.Exec("DELETE FROM leads")
	db.Exec("DELETE FROM services")
	db.Exec("DELETE FROM users")

	log.Println("Creating admin user...")
	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@consultly.local",
		PasswordHash: string(adminHash),
		Name:         "Administrator",
		Role:         domain.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("create admin:", err)
	}

	log.Println("Creating services...")
	services := []domain.Service{
		{Name: "Initial Consultation", Description: "A 60-minute discovery call to understand your needs.", DurationMin: 60, Price: 0, IsActive: true},
		{Name: "Strategy Session", Description: "Deep-dive working session with a senior consultant.", DurationMin: 90, Price: 250, IsActive: true},
		{Name: "Follow-up Call", Description: "30-minute check-in on an ongoing engagement.", DurationMin: 30, Price: 80, IsActive: true},
	}
	if err := db.Create(&services).Error; err != nil {
		log.Fatal("create services:", err)
	}

	log.Println("Creating availability windows...")
	loc := time.UTC
	for day := 1; day <= 5; day++ {
		date := time.Now().In(loc).AddDate(0, 0, day)
		start := time.Date(date.Year(), date.Month(), date.Day(), 9, 0, 0, 0, loc)
		end := time.Date(date.Year(), date.Month(), date.Day(), 17, 0, 0, 0, loc)

		a := domain.Availability{
			Title:           "Weekday consultations",
			StaffName:       "Jordan Reeves",
			StartTime:       start,
			EndTime:         end,
			SlotDurationMin: 60,
			IsActive:        true,
		}
		if err := db.Create(&a).Error; err != nil {
			log.Fatal("create availability:", err)
		}

		slots, err := availability.GenerateSlots(start, end, 60)
		if err != nil {
			log.Fatal("generate slots:", err)
		}
		for i := range slots {
			slots[i].AvailabilityID = a.ID
		}
		if err := db.Create(&slots).Error; err != nil {
			log.Fatal("create slots:", err)
		}
	}

	log.Println("Seed complete.")
}
