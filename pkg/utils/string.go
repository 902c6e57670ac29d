package utils

import "math/rand"

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Merchant order id suffix'i gibi kısa rastgele değerler için.
// Kriptografik değil; unique'lik DB constraint'iyle garanti edilir.
// Paket seviyesindeki rand fonksiyonları goroutine-safe, eşzamanlı
// order creation'lar buradan geçer.
func GenerateRandomString(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
