package repository

import "errors"

// 対象が見つからない
var ErrNotFound = errors.New("not found")

// 一意制約違反
var ErrDuplicate = errors.New("duplicate")
