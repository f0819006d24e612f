// Package validation 请求体校验
//
// 基于 go-playground/validator，使用 binding 标签，与 gin 的 ShouldBindJSON 共用同一个引擎。
// 校验失败时只返回第一个不满足的约束（按字段声明顺序）。
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// now 可在测试中替换
var now = time.Now

// Error 校验错误，Message 为第一个不满足的约束描述
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Validator 实现 gin 的 binding.StructValidator
type Validator struct {
	once     sync.Once
	validate *validator.Validate
}

// Default 全局校验器
var Default = &Validator{}

// Install 替换 gin 的默认校验器，并拒绝未知字段
func Install() {
	binding.Validator = Default
	binding.EnableDecoderDisallowUnknownFields = true
}

// ValidateStruct 校验结构体，返回 *Error
func (v *Validator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	val := reflect.ValueOf(obj)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil
	}

	v.lazyinit()
	if err := v.validate.Struct(obj); err != nil {
		return Translate(err)
	}
	return nil
}

// Engine 返回底层 validator 实例
func (v *Validator) Engine() any {
	v.lazyinit()
	return v.validate
}

func (v *Validator) lazyinit() {
	v.once.Do(func() {
		v.validate = validator.New()
		v.validate.SetTagName("binding")

		// 错误信息里使用 JSON 字段名
		v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		// 上映年份不能晚于当前自然年
		_ = v.validate.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
			return fl.Field().Int() <= int64(now().Year())
		})
	})
}

// Validate 使用默认校验器校验
func Validate(obj any) error {
	return Default.ValidateStruct(obj)
}

// Translate 把绑定/校验过程中的错误转换为 *Error
func Translate(err error) *Error {
	if err == nil {
		return nil
	}

	var ve *Error
	if errors.As(err, &ve) {
		return ve
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &Error{Message: fieldMessage(fieldErrs[0])}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &Error{Message: fmt.Sprintf("%q must be %s", typeErr.Field, typeName(typeErr.Type))}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &Error{Message: "request body is not valid JSON"}
	}

	if errors.Is(err, io.EOF) {
		return &Error{Message: `"value" must be of type object`}
	}

	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		name, uerr := strconv.Unquote(field)
		if uerr != nil {
			name = field
		}
		return &Error{Message: fmt.Sprintf("%q is not allowed", name)}
	}

	return &Error{Message: err.Error()}
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "min":
		if isString {
			if s, _ := fe.Value().(string); s == "" {
				return fmt.Sprintf("%q is not allowed to be empty", field)
			}
			return fmt.Sprintf("%q length must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%q must be greater than or equal to %s", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%q length must be less than or equal to %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%q must be less than or equal to %s", field, fe.Param())
	case "notfuture":
		return fmt.Sprintf("%q must be less than or equal to %d", field, now().Year())
	default:
		return fmt.Sprintf("%q failed on the %q rule", field, fe.Tag())
	}
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	default:
		return "of type " + t.Kind().String()
	}
}
