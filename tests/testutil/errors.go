package testutil

import "errors"

// ErrDeleteRefused is the error DeleteMail returns for ids listed in
// FailDeleteIDs.
var ErrDeleteRefused = errors.New("delete refused")
