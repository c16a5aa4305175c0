package demo

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCar(t *testing.T) {
	assert.NoError(t, validateCar(Car{Name: "DeLorean", Make: "DMC", Wheels: 4}))

	// Only the wheel count is validated; every other field is optional.
	assert.NoError(t, validateCar(Car{Make: "DMC", Wheels: 4}))

	err := validateCar(Car{Name: "DeLorean", Wheels: 1})
	require.Error(t, err)
	assert.Equal(t, "Wheels must be a value between 2 and 6.", err.Error())

	err = validateCar(Car{Name: "DeLorean", Wheels: 7})
	require.Error(t, err)
	assert.Equal(t, "Wheels must be a value between 2 and 6.", err.Error())
}

func TestCarFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("name", "DeLorean")
	values.Set("make", "DMC")
	values.Set("wheels", "4")

	car, err := carFromQuery(values)
	require.NoError(t, err)
	assert.Equal(t, Car{Name: "DeLorean", Make: "DMC", Wheels: 4}, car)

	values.Set("wheels", "not-a-number")
	_, err = carFromQuery(values)
	require.Error(t, err)
	assert.Equal(t, "Wheels must be a value between 2 and 6.", err.Error())

	values.Set("wheels", "4")
	values.Set("built", "not-a-timestamp")
	_, err = carFromQuery(values)
	assert.Error(t, err)
}
