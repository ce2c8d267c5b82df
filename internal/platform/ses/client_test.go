package ses

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/losaltoshacks/registration-backend/internal/platform/logger"
)

type fakeSES struct {
	in  *sesv2.SendEmailInput
	err error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("ses-1")}, nil
}

func TestSendBuildsSimpleMessage(t *testing.T) {
	fake := &fakeSES{}
	c := newWithAPI(logger.NewNop(), fake, "no-reply@losaltoshacks.com")

	id, err := c.Send(context.Background(), Message{
		To:      []string{"kid@example.com"},
		Subject: "Confirm",
		HTML:    "<a href='x'>confirm</a>",
	})
	require.NoError(t, err)
	assert.Equal(t, "ses-1", id)
	assert.Equal(t, "no-reply@losaltoshacks.com", aws.ToString(fake.in.FromEmailAddress))
	assert.Equal(t, []string{"kid@example.com"}, fake.in.Destination.ToAddresses)
	assert.Equal(t, "Confirm", aws.ToString(fake.in.Content.Simple.Subject.Data))
	assert.Nil(t, fake.in.Content.Simple.Body.Text)
	assert.NotNil(t, fake.in.Content.Simple.Body.Html)
}

func TestSendWrapsErrors(t *testing.T) {
	c := newWithAPI(logger.NewNop(), &fakeSES{err: errors.New("throttled")}, "a@b.c")
	_, err := c.Send(context.Background(), Message{To: []string{"x@y.z"}, Subject: "s", Text: "t"})
	assert.ErrorContains(t, err, "throttled")
}

func TestSendRequiresRecipientAndBody(t *testing.T) {
	c := newWithAPI(logger.NewNop(), &fakeSES{}, "a@b.c")
	_, err := c.Send(context.Background(), Message{Subject: "s", Text: "t"})
	assert.Error(t, err)
	_, err = c.Send(context.Background(), Message{To: []string{"x@y.z"}, Subject: "s"})
	assert.Error(t, err)
}
