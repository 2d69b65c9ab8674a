package webutil

import (
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/locales/ja" // 日本語ロケール
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ja_translations "github.com/go-playground/validator/v10/translations/ja" // 日本語翻訳
)

// Validator はアプリケーション全体で共有されるバリデータインスタンスです。
var Validator *validator.Validate

// Trans はエラーメッセージを翻訳するためのトランスレータです。
var Trans ut.Translator

var fieldNameTranslations = map[string]string{
	"username":    "ユーザー名",
	"password":    "パスワード",
	"class_level": "学年",
	"lectures":    "講義数",
	"dpp":         "DPP数",
	"change":      "増減値",
	"updates":     "更新内容",
}

func init() {
	Validator = validator.New()

	// エラーの Field() が JSON タグ名になるようにする
	Validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	japanese := ja.New()
	uni := ut.New(japanese, japanese)
	var found bool
	Trans, found = uni.GetTranslator("ja")
	if !found {
		log.Fatal("translator not found")
	}

	if err := ja_translations.RegisterDefaultTranslations(Validator, Trans); err != nil {
		log.Fatal(err)
	}

	registerTranslation("required", "{0}は必須項目です。")
	registerTranslation("max", "{0}は{1}文字以下で入力してください。")
	registerTranslation("gte", "{0}は{1}以上で指定してください。")
	registerTranslation("oneof", "{0}は[{1}]のいずれかを指定してください。")
}

// registerTranslation はタグのメッセージを上書きする。{0} はフィールドの日本語名、{1} はタグのパラメータ
func registerTranslation(tag, msg string) {
	err := Validator.RegisterTranslation(tag, Trans, func(ut ut.Translator) error {
		return ut.Add(tag, msg, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(tag, translateFieldName(fe.Field()), fe.Param())
		return t
	})
	if err != nil {
		log.Fatalf("failed to register translation for %q: %v", tag, err)
	}
}

func translateFieldName(field string) string {
	if translated, ok := fieldNameTranslations[field]; ok {
		return translated
	}
	return field
}
