package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendSMSDryRun(t *testing.T) {
	c := NewClient("", "", "+15550000", true)

	resp, err := c.SendSMS("+15550100", "Your verification code is: 123456. Valid for 10 minutes.")
	require.NoError(t, err)
	assert.Equal(t, "dry-run", resp.SID)
}

func TestSendSMSSuccess(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseForm(); err == nil {
			gotBody = r.PostForm.Get("Body")
		}
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SMabc","status":"queued","error_code":null,"error_message":null}`))
	}))
	defer srv.Close()

	c := NewClient("AC123", "token", "+15550000", false)
	c.BaseURL = srv.URL

	resp, err := c.SendSMS("+15550100", "hello")
	require.NoError(t, err)
	assert.Equal(t, "SMabc", resp.SID)
	assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", gotPath)
	assert.Equal(t, "hello", gotBody)
}

func TestSendSMSProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error_code":21211,"error_message":"Invalid 'To' phone number"}`))
	}))
	defer srv.Close()

	c := NewClient("AC123", "token", "+15550000", false)
	c.BaseURL = srv.URL

	_, err := c.SendSMS("not-a-number", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid 'To' phone number")
}
