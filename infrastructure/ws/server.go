package ws

import (
	"chat-engine/auth"
	"chat-engine/contract"
	"chat-engine/domain"
	apperrors "chat-engine/errors"
	"chat-engine/services"
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server exposes the websocket endpoint plus the HTTP surface that plays
// the external collaborator role: handlers validate and persist through
// the services, which hand entities to the routers.
type Server struct {
	log           *slog.Logger
	registry      contract.IRegistry
	chatService   services.IChatService
	groupService  services.IGroupService
	sendQueueSize int
}

func NewServer(
	log *slog.Logger,
	registry contract.IRegistry,
	chatService services.IChatService,
	groupService services.IGroupService,
	sendQueueSize int,
) *Server {
	return &Server{
		log:           log,
		registry:      registry,
		chatService:   chatService,
		groupService:  groupService,
		sendQueueSize: sendQueueSize,
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/ws", s.handleWS)

	api := r.Group("/api", s.authenticate)
	{
		api.GET("/message/users", s.handleUnseenCounts)
		api.GET("/message/:id", s.handleGetConversation)
		api.PUT("/message/mark/:id", s.handleMarkSeen)
		api.POST("/message/send/:id", s.handleSendMessage)

		api.POST("/group/create", s.handleCreateGroup)
		api.GET("/group/list", s.handleListGroups)
		api.GET("/group/:groupId", s.handleGetGroup)
		api.PUT("/group/:groupId", s.handleUpdateGroup)
		api.POST("/group/:groupId/leave", s.handleLeaveGroup)
		api.POST("/group/:groupId/members", s.handleAddMembers)
		api.DELETE("/group/:groupId/members/:memberId", s.handleRemoveMember)
		api.GET("/group/:groupId/messages", s.handleGetGroupMessages)
		api.POST("/group/:groupId/messages", s.handleSendGroupMessage)
		api.PUT("/group/:groupId/messages/:messageId/seen", s.handleMarkGroupMessageSeen)
	}
	return r
}

// authenticate binds the pre-issued identity token to the request. The
// engine trusts the user id in a valid token; issuing tokens is the
// identity service's job.
func (s *Server) authenticate(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = c.GetHeader("Authorization")
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}
	}
	claims, err := auth.ValidateToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
		return
	}
	c.Set("userID", claims.UserID)
	c.Next()
}

func userID(c *gin.Context) string {
	return c.GetString("userID")
}

// handleWS upgrades the connection and binds it to the authenticated user
// for the socket's lifetime. Registration triggers the presence broadcast;
// so does the unregister when the read pump returns.
func (s *Server) handleWS(c *gin.Context) {
	claims, err := auth.ValidateToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
		return
	}

	socket, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Info("websocket upgrade failed", "error", err)
		return
	}

	conn := NewConn(claims.UserID, socket, s.sendQueueSize, s.log)
	go conn.writePump()

	s.log.Info("user connected", "user", claims.UserID)
	s.registry.Register(claims.UserID, conn)

	conn.readPump()

	// Disconnection is the only cancellation signal. A stale unregister
	// after a replacement is a no-op inside the registry.
	s.registry.Unregister(claims.UserID, conn)
	_ = conn.Close()
	s.log.Info("user disconnected", "user", claims.UserID)
}

type sendMessageRequest struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

func (s *Server) handleSendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	msg, err := s.chatService.SendDirectMessage(c.Request.Context(), domain.SendDirectMessageCommand{
		SenderID:   userID(c),
		ReceiverID: c.Param("id"),
		Text:       req.Text,
		Image:      req.Image,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "newMessage": toDirectMessagePayload(msg)})
}

func (s *Server) handleGetConversation(c *gin.Context) {
	messages, err := s.chatService.GetConversation(userID(c), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	payload := make([]directMessagePayload, 0, len(messages))
	for _, m := range messages {
		payload = append(payload, toDirectMessagePayload(m))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "messages": payload})
}

func (s *Server) handleMarkSeen(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid message id"})
		return
	}
	if err := s.chatService.MarkMessageSeen(id); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleUnseenCounts(c *gin.Context) {
	counts, err := s.chatService.UnseenCounts(userID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "unseenMessages": counts})
}

type createGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Picture     string   `json:"picture"`
	MemberIDs   []string `json:"memberIds"`
}

func (s *Server) handleCreateGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	group, err := s.groupService.CreateGroup(c.Request.Context(), domain.CreateGroupCommand{
		Name:        req.Name,
		Description: req.Description,
		Picture:     req.Picture,
		CreatedBy:   userID(c),
		MemberIDs:   req.MemberIDs,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "group": toGroupPayload(group)})
}

func (s *Server) handleListGroups(c *gin.Context) {
	groups, err := s.groupService.ListGroups(userID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	payload := make([]groupPayload, 0, len(groups))
	for _, g := range groups {
		payload = append(payload, toGroupPayload(g))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "groups": payload})
}

func (s *Server) handleGetGroup(c *gin.Context) {
	groupID, err := parseID(c.Param("groupId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid group id"})
		return
	}
	group, err := s.groupService.GetGroup(groupID, userID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "group": toGroupPayload(group)})
}

type updateGroupRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Picture     *string `json:"picture"`
}

func (s *Server) handleUpdateGroup(c *gin.Context) {
	groupID, err := parseID(c.Param("groupId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid group id"})
		return
	}
	var req updateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	group, err := s.groupService.UpdateGroup(c.Request.Context(), domain.UpdateGroupCommand{
		GroupID:     groupID,
		ActorID:     userID(c),
		Name:        req.Name,
		Description: req.Description,
		Picture:     req.Picture,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "group": toGroupPayload(group)})
}

type addMembersRequest struct {
	MemberIDs []string `json:"memberIds"`
}

func (s *Server) handleAddMembers(c *gin.Context) {
	groupID, err := parseID(c.Param("groupId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid group id"})
		return
	}
	var req addMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	group, err := s.groupService.AddMembers(c.Request.Context(), domain.AddMembersCommand{
		GroupID:   groupID,
		ActorID:   userID(c),
		MemberIDs: req.MemberIDs,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "group": toGroupPayload(group)})
}

func (s *Server) handleRemoveMember(c *gin.Context) {
	groupID, err := parseID(c.Param("groupId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid group id"})
		return
	}
	group, err := s.groupService.RemoveMember(c.Request.Context(), domain.RemoveMemberCommand{
		GroupID:  groupID,
		ActorID:  userID(c),
		MemberID: c.Param("memberId"),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "group": toGroupPayload(group)})
}

func (s *Server) handleLeaveGroup(c *gin.Context) {
	groupID, err := parseID(c.Param("groupId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid group id"})
		return
	}
	deleted, err := s.groupService.LeaveGroup(c.Request.Context(), domain.LeaveGroupCommand{
		GroupID: groupID,
		ActorID: userID(c),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	message := "Left group successfully"
	if deleted {
		message = "Group deleted successfully"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

func (s *Server) handleSendGroupMessage(c *gin.Context) {
	groupID, err := parseID(c.Param("groupId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid group id"})
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	msg, err := s.chatService.SendGroupMessage(c.Request.Context(), domain.SendGroupMessageCommand{
		GroupID:  groupID,
		SenderID: userID(c),
		Text:     req.Text,
		Image:    req.Image,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "newMessage": toGroupMessagePayload(msg)})
}

func (s *Server) handleGetGroupMessages(c *gin.Context) {
	groupID, err := parseID(c.Param("groupId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid group id"})
		return
	}
	messages, err := s.chatService.GetGroupMessages(groupID, userID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	payload := make([]groupMessagePayload, 0, len(messages))
	for _, m := range messages {
		payload = append(payload, toGroupMessagePayload(m))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "messages": payload})
}

func (s *Server) handleMarkGroupMessageSeen(c *gin.Context) {
	groupID, err := parseID(c.Param("groupId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid group id"})
		return
	}
	messageID, err := parseID(c.Param("messageId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid message id"})
		return
	}
	if err := s.chatService.MarkGroupMessageSeen(groupID, messageID, userID(c)); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// fail maps domain errors to the collaborator contract. Not-found, deleted
// and not-authorized collapse into one 404 so a caller cannot distinguish
// a deleted group from one that never existed.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrGroupNotFound),
		errors.Is(err, apperrors.ErrNotMember),
		errors.Is(err, apperrors.ErrNotAdmin),
		errors.Is(err, apperrors.ErrMessageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "not found"})
	case errors.Is(err, apperrors.ErrRemoveCreator),
		errors.Is(err, apperrors.ErrEmptyGroupName),
		errors.Is(err, apperrors.ErrNoMembers):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	default:
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		s.log.Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
	}
}

// Run serves until ctx is canceled, then shuts the listener down.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}
