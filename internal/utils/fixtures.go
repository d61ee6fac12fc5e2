package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/gdgu-dev/student-portal/backend/internal/domain"
)

// fixture generators for cmd/seed, development databases only

var firstNames = []string{
	"Aarav", "Vivaan", "Aditya", "Arjun", "Reyansh", "Krishna", "Ishaan", "Rohan",
	"Ananya", "Diya", "Aadhya", "Saanvi", "Priya", "Ishita", "Kavya", "Meera",
}

var lastNames = []string{
	"Sharma", "Verma", "Gupta", "Singh", "Kumar", "Patel", "Reddy", "Mehta",
	"Joshi", "Malhotra", "Chopra", "Nair", "Iyer", "Bose", "Das", "Rao",
}

var departments = []string{
	"Computer Science", "Mechanical Engineering", "Civil Engineering",
	"Electronics", "Business Administration", "Law",
}

func GenerateRandomFullName() (string, string) {
	first := firstNames[rand.Intn(len(firstNames))]
	last := lastNames[rand.Intn(len(lastNames))]
	return first, last
}

func GenerateRandomContactNumber() string {
	// Indian mobile numbers start with 6-9
	number := fmt.Sprintf("%d", 6+rand.Intn(4))
	for i := 0; i < 9; i++ {
		number += fmt.Sprintf("%d", rand.Intn(10))
	}
	return number
}

func GenerateRandomUser(password string, emailDomain string) (*domain.User, error) {
	first, last := GenerateRandomFullName()
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	email := fmt.Sprintf("%s.%s%d@%s", strings.ToLower(first), strings.ToLower(last), rand.Intn(1000), emailDomain)

	fatherFirst, _ := GenerateRandomFullName()
	motherFirst, _ := GenerateRandomFullName()

	user := &domain.User{
		Email:         email,
		PasswordHash:  string(passwordHash),
		FatherName:    fatherFirst + " " + last,
		MotherName:    motherFirst + " " + last,
		ContactNumber: GenerateRandomContactNumber(),
		Photo:         "https://placehold.co/256x256",
		CollegeIDCard: "https://placehold.co/512x320",
		Role:          domain.RoleStudent,
		IsVerified:    true,
	}

	return user, nil
}

func GenerateRandomStudent(emailDomain string) *domain.Student {
	first, last := GenerateRandomFullName()
	fatherFirst, _ := GenerateRandomFullName()
	motherFirst, _ := GenerateRandomFullName()

	rollNo := fmt.Sprintf("23%07d", rand.Intn(10000000))

	return &domain.Student{
		Name:          first + " " + last,
		Email:         fmt.Sprintf("%s.%s@%s", strings.ToLower(first), rollNo, emailDomain),
		RollNo:        rollNo,
		Department:    departments[rand.Intn(len(departments))],
		Year:          int32(rand.Intn(4) + 1),
		ContactNumber: GenerateRandomContactNumber(),
		FatherName:    fatherFirst + " " + last,
		MotherName:    motherFirst + " " + last,
	}
}
