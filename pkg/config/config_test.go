package config_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/retail-pos/pkg/config"
)

func TestLoad_TasasPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.Settlement.StoreDiscountRate.Equal(decimal.NewFromFloat(0.10)),
		"descuento de tienda por defecto 10%%")
	assert.True(t, cfg.Settlement.TaxRate.Equal(decimal.NewFromFloat(0.18)),
		"impuesto por defecto 18%%")
}

func TestLoad_TasasDesdeEntorno(t *testing.T) {
	t.Setenv("STORE_DISCOUNT_RATE", "0.05")
	t.Setenv("TAX_RATE", "0.21")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.Settlement.StoreDiscountRate.Equal(decimal.NewFromFloat(0.05)))
	assert.True(t, cfg.Settlement.TaxRate.Equal(decimal.NewFromFloat(0.21)))
}

func TestLoad_TasaFueraDeRangoFalla(t *testing.T) {
	t.Setenv("TAX_RATE", "1.5")

	_, err := config.Load()
	assert.Error(t, err, "una tasa >= 1 debe rechazarse al cargar")
}

func TestLoad_TasaNegativaFalla(t *testing.T) {
	t.Setenv("STORE_DISCOUNT_RATE", "-0.10")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	db := config.DBConfig{
		Host: "localhost", Port: 5432, User: "postgres",
		Password: "p@ss/word", DBName: "retail_pos", SSLMode: "disable",
	}
	dsn := db.ConnectionString()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "sslmode=disable")
	assert.NotContains(t, dsn, "p@ss/word", "la contraseña debe ir URL-encoded")

	db.DatabaseURL = "postgresql://u:p@db:5432/x"
	assert.Equal(t, "postgresql://u:p@db:5432/x", db.ConnectionString(), "DATABASE_URL tiene prioridad")
}
