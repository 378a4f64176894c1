package auth

import "time"

func (i *TokenIssuer) SetNowFunc(now func() time.Time) {
	i.now = now
}

func (v *TokenVerifier) SetNowFunc(now func() time.Time) {
	v.now = now
}

func (e *CodeExchanger) SetNowFunc(now func() time.Time) {
	e.now = now
}
