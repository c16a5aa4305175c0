package demo

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Car is the model-binding example: bound from a JSON body on /car and
// from the query string on /car2.
type Car struct {
	Name   string    `json:"name" xml:"Name" msgpack:"name"`
	Make   string    `json:"make" xml:"Make" msgpack:"make"`
	Wheels int       `json:"wheels" xml:"Wheels" msgpack:"wheels"`
	Built  time.Time `json:"built,omitempty" xml:"Built,omitempty" msgpack:"built,omitempty"`
}

const wheelsMessage = "Wheels must be a value between 2 and 6."

// bareList renders aggregated field errors without the multierror
// banner, so a single failure reads as its plain message.
func bareList(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, " ")
}

// validateCar checks the model independent of how it was bound.
func validateCar(car Car) error {
	result := &multierror.Error{ErrorFormat: bareList}

	if car.Wheels < 2 || car.Wheels > 6 {
		result = multierror.Append(result, errors.New(wheelsMessage))
	}

	return result.ErrorOrNil()
}

// carFromQuery binds a Car from query-string values.
func carFromQuery(values url.Values) (Car, error) {
	var car Car
	car.Name = values.Get("name")
	car.Make = values.Get("make")

	if raw := values.Get("wheels"); raw != "" {
		wheels, err := strconv.Atoi(raw)
		if err != nil {
			return car, errors.New(wheelsMessage)
		}
		car.Wheels = wheels
	}

	if raw := values.Get("built"); raw != "" {
		built, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return car, errors.New("Built must be an RFC 3339 timestamp.")
		}
		car.Built = built
	}

	return car, nil
}
