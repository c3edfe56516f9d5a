package psswd

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt хеширует пароли bcrypt'ом с заданной стоимостью. Нулевое значение использует bcrypt.DefaultCost.
type Bcrypt struct {
	Cost int
}

func (b Bcrypt) HashPassword(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %s", err.Error())
	}
	return string(bytes), nil
}

func (b Bcrypt) ComparePassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
