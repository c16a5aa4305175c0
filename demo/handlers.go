package demo

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kildevaeld/strong"

	"github.com/davgren/waltz/httpcontext"
)

const maxUploadMemory = 32 << 20

func (a *App) alwaysFails(ctx *httpcontext.Context) error {
	panic("something went wrong")
}

func (a *App) login(ctx *httpcontext.Context) error {
	err := a.auth.SignIn(ctx,
		httpcontext.Claim{Type: httpcontext.ClaimTypeName, Value: "John", Issuer: claimIssuer},
		httpcontext.Claim{Type: httpcontext.ClaimTypeRole, Value: "Admin", Issuer: claimIssuer},
	)
	if err != nil {
		return err
	}
	return ctx.Text("Successfully logged in")
}

func (a *App) logout(ctx *httpcontext.Context) error {
	a.auth.SignOut(ctx)
	return ctx.Text("Successfully logged out")
}

func (a *App) currentUser(ctx *httpcontext.Context) error {
	return ctx.Text(ctx.Identity().Name())
}

func (a *App) userByID(ctx *httpcontext.Context) error {
	// The :id:int capture only matches integer segments.
	id, err := strconv.Atoi(ctx.Params().ByName("id"))
	if err != nil {
		return strong.ErrNotFound
	}
	return ctx.Text(fmt.Sprintf("User Id: %d", id))
}

func (a *App) person(ctx *httpcontext.Context) error {
	return renderPerson(ctx, Person{Name: "John Doe"})
}

func (a *App) everytime(ctx *httpcontext.Context) error {
	return ctx.Text(time.Now().Format(time.RFC3339Nano))
}

func (a *App) configured(ctx *httpcontext.Context) error {
	return ctx.Text(a.cfg.Message)
}

func (a *App) randomID(ctx *httpcontext.Context) error {
	return ctx.Text(uuid.NewString())
}

func (a *App) upload(ctx *httpcontext.Context) error {
	form, err := ctx.MultipartForm(maxUploadMemory)
	if err != nil {
		ctx.SetStatusCode(strong.StatusBadRequest)
		return ctx.Text("Bad upload request")
	}

	var names []string
	for _, headers := range form.File {
		for _, header := range headers {
			names = append(names, header.Filename)
		}
	}
	sort.Strings(names)

	return ctx.Text(strings.Join(names, "; "))
}

func (a *App) submitCar(ctx *httpcontext.Context) error {
	var car Car
	if err := ctx.RequestBody().Decode(&car); err != nil {
		ctx.SetStatusCode(strong.StatusBadRequest)
		return ctx.Text(err.Error())
	}

	if err := validateCar(car); err != nil {
		ctx.SetStatusCode(strong.StatusBadRequest)
		return ctx.Text(err.Error())
	}

	return ctx.JSON(car)
}

// validationFault is the XML error document /car2 answers with.
type validationFault struct {
	XMLName xml.Name `xml:"Error"`
	Message string   `xml:"Message"`
}

func (a *App) submitCarFromQuery(ctx *httpcontext.Context) error {
	car, err := carFromQuery(ctx.Request().URL.Query())
	if err != nil {
		return xmlFault(ctx, err)
	}

	if err := validateCar(car); err != nil {
		return xmlFault(ctx, err)
	}

	return ctx.Encode(strong.MIMEApplicationXMLCharsetUTF8, car)
}

func xmlFault(ctx *httpcontext.Context, err error) error {
	ctx.SetStatusCode(strong.StatusBadRequest)
	return ctx.Encode(strong.MIMEApplicationXMLCharsetUTF8, validationFault{Message: err.Error()})
}
