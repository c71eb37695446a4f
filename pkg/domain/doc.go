/*
Package domain contains the core domain models of the Tribble runtime.

It defines the typed workflow graph produced by the configuration loader and the
value types exchanged with the view layer while a session runs. This package is kept
pure and free of external dependencies like I/O or persistence.

# Key Entities

  - Config: A parsed configuration document, either a Root (locale -> file) or a Language.
  - Workflow: One branching questionnaire (sections, endpoints, starting section).
  - SectionElement: Text, Progression or Input, in render order.
  - Endpoint: A terminal node, either a templated Report or an Instructional text.
  - HistoryEntry: A visited location and the tags finalized there.
  - Snapshot: An immutable read model of a session for one render pass.
*/
package domain
