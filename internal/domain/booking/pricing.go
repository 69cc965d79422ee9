package booking

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/datalization1/roberts-lackwerk/internal/domain"
	"github.com/datalization1/roberts-lackwerk/internal/domain/entity"
)

// Tabla de precios fija en CHF. Las tarifas diarias por clase se usan como
// respaldo cuando el vehículo no tiene tarifa propia configurada.
var (
	dailyRates = map[string]decimal.Decimal{
		entity.VehicleTypeSmall:  decimal.NewFromInt(89),
		entity.VehicleTypeMedium: decimal.NewFromInt(109),
		entity.VehicleTypeLarge:  decimal.NewFromInt(139),
	}

	// Paquetes de kilómetros: recargo plano por reserva.
	kmPackagePrices = map[string]decimal.Decimal{
		"100km":     decimal.Zero,
		"200km":     decimal.NewFromInt(25),
		"unlimited": decimal.NewFromInt(60),
	}

	// Niveles de protección: recargo por día.
	insurancePrices = map[string]decimal.Decimal{
		"basic":   decimal.Zero,
		"full":    decimal.NewFromInt(25),
		"premium": decimal.NewFromInt(45),
	}

	// Extras: recargo plano. La lista actúa como allow-list de códigos.
	extraPrices = map[string]decimal.Decimal{
		"moebeldecken": decimal.NewFromInt(15),
		"sackkarre":    decimal.NewFromInt(10),
		"zurrgurte":    decimal.NewFromInt(8),
		"navi":         decimal.NewFromInt(12),
		"zusatzfahrer": decimal.NewFromInt(20),
		"winterreifen": decimal.NewFromInt(25),
	}
)

// PackageOptions son las opciones de paquete de una reserva.
type PackageOptions struct {
	KmPackage string
	Insurance string
	Extras    []string
}

// Validate comprueba las opciones contra las tablas de precios. Un código
// desconocido es un error de validación, nunca se ignora en silencio.
func (o PackageOptions) Validate() error {
	if _, ok := kmPackagePrices[o.KmPackage]; !ok {
		return fmt.Errorf("%w: paquete de kilómetros desconocido %q", domain.ErrInvalidInput, o.KmPackage)
	}
	if _, ok := insurancePrices[o.Insurance]; !ok {
		return fmt.Errorf("%w: nivel de protección desconocido %q", domain.ErrInvalidInput, o.Insurance)
	}
	for _, code := range o.Extras {
		if _, ok := extraPrices[code]; !ok {
			return fmt.Errorf("%w: código de extra desconocido %q", domain.ErrInvalidInput, code)
		}
	}
	return nil
}

// Price calcula el precio total de la ventana para el vehículo dado.
// Función pura y determinista: nunca persiste nada.
//
//	total = base + paquete_km + protección×días + Σ extras
//
// En modo slot de medio día la base es la tarifa de medio día del vehículo
// (o la mitad de la diaria si no está configurada) y los días se fuerzan a 1.
func Price(vehicle *entity.Vehicle, win Window, opts PackageOptions) (decimal.Decimal, error) {
	if err := win.Validate(); err != nil {
		return decimal.Zero, err
	}
	if err := opts.Validate(); err != nil {
		return decimal.Zero, err
	}

	days := win.Days()
	daysDec := decimal.NewFromInt(int64(days))

	var base decimal.Decimal
	if win.IsSlot() && win.Slot != entity.SlotFullDay {
		base = halfDayRate(vehicle)
	} else {
		base = dailyRate(vehicle).Mul(daysDec)
	}

	total := base.
		Add(kmPackagePrices[opts.KmPackage]).
		Add(insurancePrices[opts.Insurance].Mul(daysDec))
	for _, code := range opts.Extras {
		total = total.Add(extraPrices[code])
	}
	return total.Round(2), nil
}

func dailyRate(v *entity.Vehicle) decimal.Decimal {
	if v.DailyRate.GreaterThan(decimal.Zero) {
		return v.DailyRate
	}
	if rate, ok := dailyRates[v.Type]; ok {
		return rate
	}
	return decimal.Zero
}

func halfDayRate(v *entity.Vehicle) decimal.Decimal {
	if v.HalfDayRate.GreaterThan(decimal.Zero) {
		return v.HalfDayRate
	}
	return dailyRate(v).Div(decimal.NewFromInt(2))
}
