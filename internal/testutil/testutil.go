package testutil

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"booksync/internal/book"
	"booksync/internal/platform/crypto"
)

// TestBook is a synchronized book fixture for tests.
var TestBook = book.Book{
	ID:        "test-book-id-789",
	ISBN:      "9780596004651",
	Title:     "Head First Java",
	Author:    "Kathy Sierra, Bert Bates",
	Genre:     "Programming",
	Publisher: "O'Reilly",
	PageCount: 619,
	CreatedAt: time.Now(),
}

// GenerateTestToken issues a signed HS256 token for tests. In production
// tokens come from the identity provider, so issuance lives here.
func GenerateTestToken(secret, userID, username, email, role string) string {
	c := crypto.Claims{
		Sub:      userID,
		Username: username,
		Email:    email,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	return token
}
