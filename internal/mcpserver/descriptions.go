package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeCheckSelectors() string {
	return `Finds By.css(...) locator calls in JavaScript and TypeScript test code whose CSS selector breaks the selector policy.

USE WHEN:
- Reviewing end-to-end or Protractor/WebDriver tests before merging
- Migrating locators from class, tag or ID selectors to data attributes
- Checking only the files touched in the working tree (changed: true)
- Auditing tests as they were at a release tag or commit (ref)

INTERPRETING RESULTS:
- noClasses: the selector contains a class selector such as ".btn" or "#a .b"
- noTags: the selector is a bare lowercase tag name such as "div"
- noIds: the selector is a single ID such as "#login"
- A diagnostic on a call like items.forEach(...) means the receiver is an array
  declared with a class selector; it is reported on the call, not on a locator
- Files that could not be parsed or exceeded the size limit are counted in
  files_skipped and never reported as clean

METRICS RETURNED:
- diagnostics: file, line, column, message_id, message, source, fingerprint
- summary: total_diagnostics, by_kind, by_file, files_analyzed, files_skipped`
}

func describeCheckSource() string {
	return `Checks a single snippet of JavaScript or TypeScript without touching the filesystem.

USE WHEN:
- Validating a locator change before writing it to disk
- Explaining why a specific call is reported

INTERPRETING RESULTS:
- The path only selects the grammar (.js, .ts, .tsx and friends)
- An empty diagnostics list means every By.css call in the snippet complies

METRICS RETURNED:
- diagnostics: line, column, message_id, message, source`
}

func describeListRules() string {
	return `Describes the no-classes-by-css rule: its messages and the options schema.

USE WHEN:
- Deciding which policy options (allowIds, allowTags, disallowClasses) to pass
- Explaining a message_id returned by check_selectors

INTERPRETING RESULTS:
- Options default to allowIds=false, allowTags=false, disallowClasses=true
- Unknown option keys are rejected

METRICS RETURNED:
- name, type, description, messages, schema`
}
