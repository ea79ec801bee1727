package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/lex-book-reservations/internal/books"
	"github.com/imrishuroy/lex-book-reservations/internal/validation"
)

// RegisterBooksRoutes registers the book catalogue routes.
func RegisterBooksRoutes(r gin.IRouter, cfg HandlerConfig, write ...gin.HandlerFunc) {
	v := validation.New()

	r.GET("/books", func(c *gin.Context) {
		ctx := c.Request.Context()
		title, author := c.Query("title"), c.Query("author")

		if title == "" && author == "" {
			all, err := cfg.Books.List(ctx)
			if err != nil {
				log.Printf("[api] list books: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "list_failed"})
				return
			}
			if all == nil {
				all = []books.Book{}
			}
			c.JSON(http.StatusOK, gin.H{"books": all})
			return
		}
		if title == "" || author == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title_and_author_required"})
			return
		}

		b, err := cfg.Books.FindByTitleAndAuthor(ctx, title, author)
		if err != nil {
			log.Printf("[api] find book: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup_failed"})
			return
		}
		if b == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "book_not_found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"book": b})
	})

	r.GET("/books/:id", func(c *gin.Context) {
		b, err := cfg.Books.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			log.Printf("[api] get book: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup_failed"})
			return
		}
		if b == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "book_not_found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"book": b})
	})

	create := func(c *gin.Context) {
		var req validation.CreateBookRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}

		b := books.Book{ID: req.ID, Name: req.Name, Author: req.Author, Reserved: books.ReservedFalse}
		if err := cfg.Books.Put(c.Request.Context(), b); err != nil {
			if errors.Is(err, books.ErrBookExists) {
				c.JSON(http.StatusConflict, gin.H{"error": "book_exists"})
				return
			}
			log.Printf("[api] put book: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create_failed"})
			return
		}
		c.Header("Location", "/books/"+b.ID)
		c.JSON(http.StatusCreated, gin.H{"book": b})
	}
	r.POST("/books", append(write, create)...)
}
