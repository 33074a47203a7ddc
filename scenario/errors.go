// SPDX-License-Identifier: MIT

package scenario

import "errors"

// Sentinel errors returned by the scenario package.
var (
	// ErrInvalidRadius indicates a negative or NaN search radius.
	ErrInvalidRadius = errors.New("scenario: invalid radius")

	// ErrInvalidLinkCount indicates an N-link generator with fewer than one link.
	ErrInvalidLinkCount = errors.New("scenario: link count must be positive")

	// ErrUnknownNode indicates a GraphML edge that references an undeclared node.
	ErrUnknownNode = errors.New("scenario: edge references unknown node")

	// ErrMalformed indicates a GraphML attribute or weight that does not parse.
	ErrMalformed = errors.New("scenario: malformed graphml")
)
