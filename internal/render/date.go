package render

import (
	"fmt"
	"time"
)

var spanishWeekdays = [...]string{
	"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado",
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// SpanishLongDate renders a date in the long es-ES form, for example
// "lunes, 15 de enero de 2024".
func SpanishLongDate(t time.Time) string {
	return fmt.Sprintf("%s, %d de %s de %d",
		spanishWeekdays[t.Weekday()],
		t.Day(),
		spanishMonths[t.Month()-1],
		t.Year(),
	)
}
