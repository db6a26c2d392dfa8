package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/wasched/wasched/pkg/utils"
	pkgError "github.com/wasched/wasched/pkg/whatserr"
)

func Recovery() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			err := recover()
			if err != nil {
				var res utils.ResponseData
				res.Status = 500
				res.Code = "INTERNAL_SERVER_ERROR"
				res.Message = fmt.Sprintf("%v", err)

				logrus.Errorf("Panic recovered in middleware: %v", err)

				knownErr, isKnown := err.(pkgError.GenericError)
				if isKnown {
					res.Status = knownErr.StatusCode()
					res.Code = knownErr.ErrCode()
					res.Message = knownErr.Error()
				}

				// Field and framing detail ride in Results so the
				// composer can highlight inputs or soften the toast.
				switch e := err.(type) {
				case pkgError.ValidationError:
					res.Results = e.Fields
				case pkgError.SessionError:
					res.Results = fiber.Map{"title": e.Title()}
				}

				_ = ctx.Status(res.Status).JSON(res)
			}
		}()

		return ctx.Next()
	}
}
