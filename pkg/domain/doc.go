/*
Package domain contains the core domain models for the Tally labeling engine.

It defines the fundamental entities of an annotation run: Rows (the
prompt/response records being judged), Labels (the annotator's verdict),
and Progress (the aggregate accounting of a dataset). This package is kept
pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Row: One dataset record (ID, Prompt, Response, Label).
  - Dataset: The full row collection, with lookup and accounting helpers.
  - Label: The annotator's categorical judgment; unset until assigned.
  - Progress: Labeled/Remaining/Total counts for a dataset snapshot.
*/
package domain
