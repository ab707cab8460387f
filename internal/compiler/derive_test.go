package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveModID(t *testing.T) {
	assert.Equal(t, "ruby_mod", deriveModID("Ruby Mod!!"))
	assert.Equal(t, "my_cool_mod", deriveModID("  My---Cool   Mod  "))
	assert.Equal(t, "already_snake", deriveModID("already_snake"))
}

func TestDeriveBasePackage(t *testing.T) {
	assert.Equal(t, "com.example.ruby_mod", deriveBasePackage("ruby_mod"))
}

func TestDeriveMainClassName(t *testing.T) {
	assert.Equal(t, "RubyModMod", deriveMainClassName("ruby_mod"))
}

func TestDeriveRegistryID(t *testing.T) {
	assert.Equal(t, "ruby_mod:ruby_sword", deriveRegistryID("ruby_mod", "Ruby Sword"))
}

func TestDeriveJavaClassName(t *testing.T) {
	assert.Equal(t, "RubySwordItem", deriveJavaClassName("Ruby Sword", "Item"))
}

func TestToolJavaSuffix(t *testing.T) {
	assert.Equal(t, "PickaxeItem", ToolJavaSuffix("PICKAXE"))
}

func TestDeriveRegistrationConstant(t *testing.T) {
	assert.Equal(t, "RUBY_SWORD", deriveRegistrationConstant("Ruby Sword"))
}
