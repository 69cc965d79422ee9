package billing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/datalization1/roberts-lackwerk/internal/domain"
)

// numberPrefix es el prefijo de los números de factura. El formato completo
// RE-<año>-<contador> es contrato externo: no cambiar.
const numberPrefix = "RE"

// FormatNumber genera el número legible de una factura: RE-2025-0007.
// El contador se reinicia por año natural (lo garantiza la secuencia por año
// en persistencia, no esta función).
func FormatNumber(year, counter int) string {
	return fmt.Sprintf("%s-%04d-%04d", numberPrefix, year, counter)
}

// ParseNumber descompone un número de factura en año y contador.
// Acepta contadores de más de 4 dígitos (años con más de 9999 facturas).
func ParseNumber(number string) (year, counter int, err error) {
	parts := strings.Split(number, "-")
	if len(parts) != 3 || parts[0] != numberPrefix {
		return 0, 0, fmt.Errorf("%w: número de factura mal formado %q", domain.ErrInvalidInput, number)
	}
	year, err = strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 4 {
		return 0, 0, fmt.Errorf("%w: año inválido en %q", domain.ErrInvalidInput, number)
	}
	counter, err = strconv.Atoi(parts[2])
	if err != nil || counter < 1 {
		return 0, 0, fmt.Errorf("%w: contador inválido en %q", domain.ErrInvalidInput, number)
	}
	return year, counter, nil
}
