package controller

import (
	"codequest_backend/internal/quest"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators 注册自定义校验标签：quest 要求值是已知科目
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		err = v.RegisterValidation("quest", func(fl validator.FieldLevel) bool {
			_, perr := quest.ParseSubject(fl.Field().String())
			return perr == nil
		})
	})
	return err
}
