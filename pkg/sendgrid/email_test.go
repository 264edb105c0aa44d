package sendgrid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stylehub/storefront/pkg/sendgrid"
)

func TestNewEmailService(t *testing.T) {
	t.Run("Success - Key Configured", func(t *testing.T) {
		svc := sendgrid.NewEmailService("SG.test-key", "orders@stylehub.example", "StyleHub")
		assert.NotNil(t, svc)
	})

	t.Run("Success - Missing Key Disables Sending", func(t *testing.T) {
		svc := sendgrid.NewEmailService("", "orders@stylehub.example", "StyleHub")
		assert.Nil(t, svc)
	})
}
