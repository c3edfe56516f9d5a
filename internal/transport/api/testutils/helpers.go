package testutils

import "strings"

// multibyteSymbol 4 байта, 1 руна.
const multibyteSymbol = "😁"

// OverBytesString возвращает самую короткую строку, длина которой в байтах больше maxBytes. Длина в рунах
// при этом вчетверо меньше, так что тэг max с тем же лимитом ее пропускает, а max_bytes - нет.
func OverBytesString(maxBytes int) string {
	return strings.Repeat(multibyteSymbol, maxBytes/len(multibyteSymbol)+1)
}
