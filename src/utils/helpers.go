package utils

import (
	"fmt"
	"os"
	"time"

	"rms/src/models"
	"rms/src/types"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func GenerateJWT(email string, userId uint, role string) (string, error) {
	claims := types.Claims{
		Username: email,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(userId),
			Issuer:    "rms",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func MapReservation(r *models.Reservation) types.APIResponseReservation {
	duration := r.Duration
	return types.APIResponseReservation{
		ID:            r.ID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		Date:          r.Date,
		Time:          r.Time,
		EndTime:       EndClock(r.Time, DurationOrDefault(&duration)),
		Duration:      r.Duration,
		PartySize:     r.PartySize,
		Status:        r.Status,
		TableID:       r.TableID,
		UserID:        r.UserID,
		Timestamps:    r.Timestamps,
	}
}

func MapTable(t *models.DiningTable) types.APIResponseTable {
	return types.APIResponseTable{
		ID:        t.ID,
		Number:    t.Number,
		Capacity:  t.Capacity,
		Available: t.Available,
		Location:  t.Location,
	}
}
