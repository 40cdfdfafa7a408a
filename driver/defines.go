// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package driver

import (
	"sort"
	"strings"
)

// InjectDefines inserts one #define directive per entry of
// defines, in key order, right after the #version line of
// src. If src has no #version line, the directives are
// prepended.
func InjectDefines(src string, defines map[string]string) string {
	if len(defines) == 0 {
		return src
	}
	keys := make([]string, 0, len(defines))
	for k := range defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	head, body := "", src
	if strings.HasPrefix(strings.TrimLeft(src, " \t\r\n"), "#version") {
		if i := strings.IndexByte(src, '\n'); i >= 0 {
			head, body = src[:i+1], src[i+1:]
		} else {
			head, body = src+"\n", ""
		}
	}
	b.WriteString(head)
	for _, k := range keys {
		b.WriteString("#define ")
		b.WriteString(k)
		if v := defines[k]; v != "" {
			b.WriteByte(' ')
			b.WriteString(v)
		}
		b.WriteByte('\n')
	}
	b.WriteString(body)
	return b.String()
}
