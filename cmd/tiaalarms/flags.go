package main

import (
	"github.com/spf13/pflag"
)

// bind ties a flag to a viper key so an explicitly set flag overrides the
// config file and environment.
func (a *app) bind(flag *pflag.Flag, key string) {
	if flag == nil {
		panic("binding unknown flag to " + key)
	}
	if err := a.v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}
