package seed

type account struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
	IsDoctor    bool
	IsAdmin     bool
}

type doctorProfile struct {
	account
	Specialization string
	Experience     int
	Fees           float64
	Address        string
	Bio            string
	// Timings is the legacy [start, end] pair; it goes through the same
	// schedule normalization as any create request.
	Timings       []string
	AvailableDays []string
	Rating        float64
	NumReviews    int
}

var admin = account{
	Name:        "Admin User",
	Email:       "admin@example.com",
	Password:    "admin123",
	PhoneNumber: "9876543299",
	IsAdmin:     true,
}

var patients = []account{
	{Name: "John Doe", Email: "john.doe@example.com", Password: "patient123", PhoneNumber: "9876543220"},
	{Name: "Jane Smith", Email: "jane.smith@example.com", Password: "patient123", PhoneNumber: "9876543221"},
}

var doctors = []doctorProfile{
	{
		account:        account{Name: "Dr. Rajesh Sharma", Email: "rajesh.sharma@example.com", Password: "doctor123", PhoneNumber: "9876543201", IsDoctor: true},
		Specialization: "Cardiology",
		Experience:     15,
		Fees:           1800,
		Address:        "Sharma Heart Clinic, 123 Gandhi Road, Mumbai",
		Bio:            "Senior cardiologist with expertise in interventional cardiology and cardiac electrophysiology",
		Timings:        []string{"09:00", "17:00"},
		AvailableDays:  []string{"Monday", "Wednesday", "Friday"},
		Rating:         4.9,
		NumReviews:     42,
	},
	{
		account:        account{Name: "Dr. Priya Patel", Email: "priya.patel@example.com", Password: "doctor123", PhoneNumber: "9876543203", IsDoctor: true},
		Specialization: "Dermatology",
		Experience:     10,
		Fees:           1400,
		Address:        "Patel Skin Care, 789 Nehru Avenue, Bangalore",
		Bio:            "Dermatologist with specialization in cosmetic dermatology and skin rejuvenation",
		Timings:        []string{"09:30", "17:30"},
		AvailableDays:  []string{"Monday", "Tuesday", "Thursday", "Friday"},
		Rating:         4.8,
		NumReviews:     32,
	},
	{
		account:        account{Name: "Dr. Vikram Singh", Email: "vikram.singh@example.com", Password: "doctor123", PhoneNumber: "9876543205", IsDoctor: true},
		Specialization: "Orthopedics",
		Experience:     16,
		Fees:           2000,
		Address:        "Singh Bone & Joint Hospital, 567 Ambedkar Road, Hyderabad",
		Bio:            "Orthopedic surgeon specializing in joint replacement surgery and sports injuries",
		Timings:        []string{"09:00", "17:00"},
		AvailableDays:  []string{"Monday", "Wednesday", "Friday"},
		Rating:         4.9,
		NumReviews:     45,
	},
	{
		account:        account{Name: "Dr. Alok Singhania", Email: "alok.singhania@example.com", Password: "doctor123", PhoneNumber: "9876543225", IsDoctor: true},
		Specialization: "Pulmonology",
		Experience:     15,
		Fees:           1900,
		Bio:            "Pulmonologist specializing in respiratory infections and COPD management",
		Timings:        []string{"09:00", "17:00"},
		AvailableDays:  []string{"Monday", "Tuesday", "Thursday", "Friday"},
		Rating:         4.8,
		NumReviews:     42,
	},
	{
		account:        account{Name: "Dr. Vinay Kulkarni", Email: "vinay.kulkarni@example.com", Password: "doctor123", PhoneNumber: "9876543229", IsDoctor: true},
		Specialization: "General Medicine",
		Experience:     20,
		Fees:           1500,
		Bio:            "Experienced physician with holistic approach to healthcare",
		Timings:        []string{"09:00", "17:00"},
		AvailableDays:  []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		Rating:         4.9,
		NumReviews:     60,
	},
	{
		account:        account{Name: "Dr. Shalini Varma", Email: "shalini.varma@example.com", Password: "doctor123", PhoneNumber: "9876543230", IsDoctor: true},
		Specialization: "General Medicine",
		Experience:     15,
		Fees:           1300,
		Bio:            "Focuses on preventive care and chronic disease management",
		Timings:        []string{"10:00", "18:00"},
		AvailableDays:  []string{"Monday", "Wednesday", "Friday", "Saturday"},
		Rating:         4.8,
		NumReviews:     52,
	},
}
