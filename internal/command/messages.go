package command

import (
	"fmt"

	"codeberg.org/snonux/loga/internal/glossary"
)

const (
	msgTryNew          = "Try 'loga new' first.\n"
	msgInputGlossary   = "input glossary name '-g <glossary name>'\n"
	msgInputSource     = "input source-language code '-S <source-language code>'\n"
	msgInputTarget     = "input target-language code '-T <target-language code>'\n"
	msgNoGlossary      = "There is no registered glossary.\n"
	msgDuplicateDelete = "There are duplicate terms in glossary.\n" +
		"If you really want to delete, please put `loga delete [SOURCE_TERM] --force`\n" +
		" or `loga delete [SOURCE_TERM] [TARGET_TERM]`\n"
	msgDuplicateUpdate = "There are duplicate terms in glossary.\n" +
		"Remove the duplicate with `loga delete [SOURCE_TERM] [TARGET_TERM]` and add it again.\n"
)

func msgAlreadyExists(path string) string {
	return fmt.Sprintf("%s already exists.\n", path)
}

func msgAlreadyRegistered(name string) string {
	return fmt.Sprintf("%s is already registered.\n", name)
}

func msgNotRegistered(name string) string {
	return fmt.Sprintf("%s is not yet registered.\n", name)
}

func msgTermExists(t glossary.Term, name string) string {
	return fmt.Sprintf("term '%s: %s' already exists in '%s'\n", t.SourceTerm, t.TargetTerm, name)
}

func msgTermNotFound(source, target, name string) string {
	if target == "" {
		return fmt.Sprintf("source_term '%s' not found in '%s'\n", source, name)
	}
	return fmt.Sprintf("source_term '%s' with target_term '%s' not found in '%s'\n", source, target, name)
}

func msgGlossaryNotFound(g glossary.Glossary) string {
	return fmt.Sprintf("glossary '%s' not found\n", g)
}

func msgLookupNotFound(fragment string) string {
	return fmt.Sprintf("source-term <%s> not found\n", fragment)
}

func msgUnknownKey(key string) string {
	return fmt.Sprintf("unknown config key '%s'\n", key)
}

// formatTerm renders "  source : target[ # note]"
func formatTerm(t glossary.Term) string {
	line := fmt.Sprintf("  %s : %s", t.SourceTerm, t.TargetTerm)
	if t.Note != "" {
		line += " # " + t.Note
	}
	return line
}
